package event

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/logging"
)

// Handler 事件处理函数
type Handler func(Event)

// Bus 单线程事件总线
//
// 架构说明：
//   - Publish 只入队，不立即调用处理函数
//   - Dispatch 在更新阶段调用，按 FIFO 顺序派发本帧之前入队的全部事件
//   - 派发过程中新发布的事件留到下一次 Dispatch
//   - 同一类型的多个处理函数按注册顺序调用
//   - 单个处理函数 panic 不影响其他处理函数
type Bus struct {
	handlers map[Type][]Handler
	all      []Handler
	queue    []Event
	history  int
	logger   *log.Logger
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
		logger:   logging.For("EventBus"),
	}
}

// Publish 发布事件（入队）
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.queue = append(b.queue, e)
}

// Subscribe 订阅指定类型事件
func (b *Bus) Subscribe(t Type, h Handler) {
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll 订阅所有事件（调试、统计使用）
func (b *Bus) SubscribeAll(h Handler) {
	b.all = append(b.all, h)
}

// Pending 返回待派发事件数量
func (b *Bus) Pending() int {
	return len(b.queue)
}

// Dispatched 返回累计派发事件数量
func (b *Bus) Dispatched() int {
	return b.history
}

// Dispatch 派发所有待处理事件
//
// 返回：
//   - int: 本次派发的事件数量
func (b *Bus) Dispatch() int {
	if len(b.queue) == 0 {
		return 0
	}

	events := b.queue
	b.queue = nil

	for _, ev := range events {
		for _, h := range b.handlers[ev.Type] {
			b.invoke(h, ev)
		}
		for _, h := range b.all {
			b.invoke(h, ev)
		}
	}
	b.history += len(events)
	return len(events)
}

func (b *Bus) invoke(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "event", ev.Type, "panic", fmt.Sprint(r))
		}
	}()
	h(ev)
}

// Drain 丢弃所有待派发事件（场景切换时使用）
func (b *Bus) Drain() {
	b.queue = nil
}
