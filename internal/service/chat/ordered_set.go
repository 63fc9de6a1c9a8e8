package chat

// orderedSet 保持插入顺序的字符串集合，用于成员列表和输入中列表
type orderedSet struct {
	items []string
	index map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]struct{})}
}

// add 已存在时返回 false
func (s *orderedSet) add(v string) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// remove 不存在时返回 false
func (s *orderedSet) remove(v string) bool {
	if _, ok := s.index[v]; !ok {
		return false
	}
	delete(s.index, v)
	for i, item := range s.items {
		if item == v {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

func (s *orderedSet) has(v string) bool {
	_, ok := s.index[v]
	return ok
}

// list 返回副本
func (s *orderedSet) list() []string {
	return append([]string(nil), s.items...)
}
