package detect

import (
	"sync"
	"time"
)

// statusStore 共享状态存储，是核心里唯一被多方并发读写的数据
// 结构小、更新低频，整体用一把互斥锁保护即可
type statusStore struct {
	m         sync.Mutex
	running   bool
	startedAt *time.Time
	last      *Detection
	history   []*Detection // 最新在前
	lastError string
	totalBags int64
	max       int
}

func newStatusStore(maxHistory int) *statusStore {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &statusStore{max: maxHistory}
}

// reset 每次 start 时清空历史并标记运行中
func (s *statusStore) reset(now time.Time) {
	s.m.Lock()
	defer s.m.Unlock()
	s.running = true
	s.startedAt = &now
	s.last = nil
	s.history = nil
	s.lastError = ""
	s.totalBags = 0
}

func (s *statusStore) setRunning(v bool) {
	s.m.Lock()
	defer s.m.Unlock()
	s.running = v
}

func (s *statusStore) isRunning() bool {
	s.m.Lock()
	defer s.m.Unlock()
	return s.running
}

// push 头插一条记录并截断到容量上限
func (s *statusStore) push(d *Detection) {
	s.m.Lock()
	defer s.m.Unlock()
	s.last = d
	s.history = append([]*Detection{d}, s.history...)
	if len(s.history) > s.max {
		s.history = s.history[:s.max]
	}
	s.totalBags++
	if d.Category == CategoryError {
		s.lastError = d.Reason
	}
}

func (s *statusStore) setLastError(msg string) {
	s.m.Lock()
	defer s.m.Unlock()
	s.lastError = msg
}

// snapshot 返回状态副本，history 切片独立，记录本身产出后不可变
func (s *statusStore) snapshot() Status {
	s.m.Lock()
	defer s.m.Unlock()
	history := make([]*Detection, len(s.history))
	copy(history, s.history)
	return Status{
		Running:   s.running,
		StartedAt: s.startedAt,
		Last:      s.last,
		History:   history,
		LastError: s.lastError,
		TotalBags: s.totalBags,
	}
}
