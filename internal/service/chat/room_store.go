package chat

import (
	"sort"
	"strings"

	"room_chat_server/pkg/constants"
	"room_chat_server/pkg/errorx"
)

// Room 一个命名频道：公共房间或懒创建的私聊房间
type Room struct {
	Name    string
	Private bool
	// Participants 私聊房间的两个会话，公共房间为空
	Participants []string

	members *orderedSet
	typing  *orderedSet
	log     *MessageLog
}

// Members 当前在房间内的会话 ID（加入顺序）
func (r *Room) Members() []string {
	return r.members.list()
}

// Typing 当前正在输入的会话 ID
func (r *Room) Typing() []string {
	return r.typing.list()
}

// audience 房间事件的接收者：公共房间为在场成员，私聊房间为双方
func (r *Room) audience() []string {
	if r.Private {
		return append([]string(nil), r.Participants...)
	}
	return r.members.list()
}

// RoomStore 保存所有房间
// 公共房间在启动时按配置创建，私聊房间首次私信时创建并在进程生命周期内保留
type RoomStore struct {
	rooms    map[string]*Room
	public   []string
	capacity int
}

// NewRoomStore 创建房间存储并初始化公共房间
func NewRoomStore(publicRooms []string, capacity int) *RoomStore {
	s := &RoomStore{
		rooms:    make(map[string]*Room),
		capacity: capacity,
	}
	for _, name := range publicRooms {
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, constants.PRIVATE_ROOM_PREFIX) {
			continue
		}
		if _, ok := s.rooms[name]; ok {
			continue
		}
		s.rooms[name] = s.newRoom(name)
		s.public = append(s.public, name)
	}
	return s
}

func (s *RoomStore) newRoom(name string) *Room {
	return &Room{
		Name:    name,
		members: newOrderedSet(),
		typing:  newOrderedSet(),
		log:     NewMessageLog(s.capacity),
	}
}

// Get 按名称查找房间（公共或私聊）
func (s *RoomStore) Get(name string) (*Room, bool) {
	r, ok := s.rooms[name]
	return r, ok
}

// Public 查找公共房间，不存在时返回 ErrUnknownRoom
func (s *RoomStore) Public(name string) (*Room, error) {
	r, ok := s.rooms[name]
	if !ok || r.Private {
		return nil, errorx.Wrapf(errorx.ErrUnknownRoom, errorx.CodeUnknownRoom, "room %q not found", name)
	}
	return r, nil
}

// PublicNames 公共房间名称（配置顺序）
func (s *RoomStore) PublicNames() []string {
	return append([]string(nil), s.public...)
}

// PrivateKey 私聊房间键：两个会话 ID 排序后拼接
func PrivateKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return constants.PRIVATE_ROOM_PREFIX + pair[0] + "_" + pair[1]
}

// Private 获取或懒创建两个会话之间的私聊房间
func (s *RoomStore) Private(a, b string) *Room {
	key := PrivateKey(a, b)
	if r, ok := s.rooms[key]; ok {
		return r
	}
	r := s.newRoom(key)
	r.Private = true
	pair := []string{a, b}
	sort.Strings(pair)
	r.Participants = pair
	s.rooms[key] = r
	return r
}

// Enter 将会话加入房间成员集合
func (s *RoomStore) Enter(room *Room, sessionID string) {
	room.members.add(sessionID)
}

// Leave 幂等：会话不在房间内时什么也不做；同时清理输入中状态
func (s *RoomStore) Leave(room *Room, sessionID string) bool {
	room.typing.remove(sessionID)
	return room.members.remove(sessionID)
}

// Departure 一次离开的结果
type Departure struct {
	Room      *Room
	WasTyping bool
}

// LeaveAll 将会话从所有公共房间移除，返回实际离开的房间
// 保证一个会话任何时刻至多属于一个房间
func (s *RoomStore) LeaveAll(sessionID string) []Departure {
	var left []Departure
	for _, name := range s.public {
		r := s.rooms[name]
		typing := r.typing.has(sessionID)
		if s.Leave(r, sessionID) {
			left = append(left, Departure{Room: r, WasTyping: typing})
		}
	}
	return left
}

// SetTyping 直接镜像客户端声明的输入状态，返回集合是否变化
func (s *RoomStore) SetTyping(room *Room, sessionID string, typing bool) bool {
	if typing {
		if !room.members.has(sessionID) {
			return false
		}
		return room.typing.add(sessionID)
	}
	return room.typing.remove(sessionID)
}
