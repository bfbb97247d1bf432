package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/Conversly/clinic-assist/internal/session"
	"github.com/Conversly/clinic-assist/internal/utils"
)

// Dispatcher routes each inbound event to the admin or visitor flow and
// executes the resulting actions against the gateway. Sender identity is
// the only routing input: ids on the allow-list always get the admin
// flow, everyone else always gets the visitor flow.
type Dispatcher struct {
	engine  *Engine
	gateway Gateway
	admins  map[string]struct{}
	locks   *session.KeyLock
}

func NewDispatcher(engine *Engine, gateway Gateway, adminSenders []string) *Dispatcher {
	admins := make(map[string]struct{}, len(adminSenders))
	for _, id := range adminSenders {
		admins[id] = struct{}{}
	}
	return &Dispatcher{
		engine:  engine,
		gateway: gateway,
		admins:  admins,
		locks:   session.NewKeyLock(),
	}
}

// IsAdmin reports whether the sender routes to the admin flow.
func (d *Dispatcher) IsAdmin(senderID string) bool {
	_, ok := d.admins[senderID]
	return ok
}

// Dispatch processes one event to completion. The sender's lock is held
// for the whole transition plus action delivery, so rapid double-sends
// from one sender are handled strictly in order.
func (d *Dispatcher) Dispatch(ctx context.Context, ev InboundEvent) {
	if ev.Kind == EventOther {
		return
	}

	unlock := d.locks.Lock(ev.SenderID)
	defer unlock()

	var actions []Action
	if d.IsAdmin(ev.SenderID) {
		actions = d.engine.HandleAdmin(ctx, ev)
	} else {
		actions = d.engine.HandleVisitor(ctx, ev)
	}

	d.execute(ctx, ev, actions)
}

// execute sends each action in order. A failed send is logged and does
// not block the actions after it.
func (d *Dispatcher) execute(ctx context.Context, ev InboundEvent, actions []Action) {
	for _, action := range actions {
		var err error
		switch msg := action.(type) {
		case SendText:
			err = d.gateway.SendText(ctx, ev.SenderID, ev.ChannelID, msg)
		case SendButtons:
			err = d.gateway.SendButtons(ctx, ev.SenderID, ev.ChannelID, msg)
		case SendList:
			err = d.gateway.SendList(ctx, ev.SenderID, ev.ChannelID, msg)
		}
		if err != nil {
			utils.Zlog.Error("failed to deliver outbound action",
				zap.String("sender_id", ev.SenderID),
				zap.String("channel_id", ev.ChannelID),
				zap.Error(err))
		}
	}
}
