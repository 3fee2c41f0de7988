package lifecycle

// Observer is notified after lifecycle operations complete.
// OnCreate, OnReplace and OnDelete run under the controller's write lock in
// commit order; they must not block or call back into the controller.
// OnRead reports a successful list or get.
type Observer interface {
	OnRead(kind, operation string)
	OnCreate(kind string, id int)
	OnReplace(kind string, id int)
	OnDelete(kind string, id int)
	OnError(kind, operation string, outcome Outcome)
}

// NoopObserver ignores every notification.
type NoopObserver struct{}

func (NoopObserver) OnRead(string, string)           {}
func (NoopObserver) OnCreate(string, int)            {}
func (NoopObserver) OnReplace(string, int)           {}
func (NoopObserver) OnDelete(string, int)            {}
func (NoopObserver) OnError(string, string, Outcome) {}

// Observers fans notifications out to each observer in order.
type Observers []Observer

func (o Observers) OnRead(kind, operation string) {
	for _, obs := range o {
		obs.OnRead(kind, operation)
	}
}

func (o Observers) OnCreate(kind string, id int) {
	for _, obs := range o {
		obs.OnCreate(kind, id)
	}
}

func (o Observers) OnReplace(kind string, id int) {
	for _, obs := range o {
		obs.OnReplace(kind, id)
	}
}

func (o Observers) OnDelete(kind string, id int) {
	for _, obs := range o {
		obs.OnDelete(kind, id)
	}
}

func (o Observers) OnError(kind, operation string, outcome Outcome) {
	for _, obs := range o {
		obs.OnError(kind, operation, outcome)
	}
}
