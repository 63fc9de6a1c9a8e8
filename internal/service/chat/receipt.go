package chat

// ReceiptStatus 展示用的回执状态，由 readBy 推导，不存储
type ReceiptStatus string

const (
	ReceiptSent      ReceiptStatus = "sent"
	ReceiptDelivered ReceiptStatus = "delivered"
	ReceiptRead      ReceiptStatus = "read"
)

// DeriveReceiptStatus 根据 readBy 与当前房间成员推导回执状态
// sent: 只有发送者已读；read: 覆盖除发送者外的全部当前成员；其余为 delivered
func DeriveReceiptStatus(readBy []string, senderID string, members []string) ReceiptStatus {
	read := make(map[string]struct{}, len(readBy))
	for _, id := range readBy {
		if id != senderID {
			read[id] = struct{}{}
		}
	}
	if len(read) == 0 {
		return ReceiptSent
	}
	for _, m := range members {
		if m == senderID {
			continue
		}
		if _, ok := read[m]; !ok {
			return ReceiptDelivered
		}
	}
	return ReceiptRead
}
