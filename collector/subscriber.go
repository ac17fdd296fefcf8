package collector

// Subscriber handles event subscriptions.
type Subscriber struct {
	done                  chan struct{}
	runStartedHandler     func(RunStarted)
	pageCompletedHandler  func(PageCompleted)
	pageSkippedHandler    func(PageSkipped)
	addressSkippedHandler func(AddressSkipped)
	runDoneHandler        func(RunDone)
	runShutdownHandler    func(RunShutdown)
	runErrorHandler       func(RunError)
}

// OnRunStarted sets the handler for RunStarted events
func OnRunStarted(fn func(RunStarted)) func(*Subscriber) {
	return func(s *Subscriber) { s.runStartedHandler = fn }
}

// OnPageCompleted sets the handler for PageCompleted events
func OnPageCompleted(fn func(PageCompleted)) func(*Subscriber) {
	return func(s *Subscriber) { s.pageCompletedHandler = fn }
}

// OnPageSkipped sets the handler for PageSkipped events
func OnPageSkipped(fn func(PageSkipped)) func(*Subscriber) {
	return func(s *Subscriber) { s.pageSkippedHandler = fn }
}

// OnAddressSkipped sets the handler for AddressSkipped events
func OnAddressSkipped(fn func(AddressSkipped)) func(*Subscriber) {
	return func(s *Subscriber) { s.addressSkippedHandler = fn }
}

// OnRunDone sets the handler for RunDone events
func OnRunDone(fn func(RunDone)) func(*Subscriber) {
	return func(s *Subscriber) { s.runDoneHandler = fn }
}

// OnRunShutdown sets the handler for RunShutdown events
func OnRunShutdown(fn func(RunShutdown)) func(*Subscriber) {
	return func(s *Subscriber) { s.runShutdownHandler = fn }
}

// OnRunError sets the handler for RunError events
func OnRunError(fn func(RunError)) func(*Subscriber) {
	return func(s *Subscriber) { s.runErrorHandler = fn }
}

// NewSubscriber creates a Subscriber with the given options and starts the dispatch loop.
// Returns a closer function that waits for all events to be processed.
//
// Example:
//
//	closer := collector.NewSubscriber(events,
//	  collector.OnRunDone(func(e collector.RunDone) { ... }),
//	)
//	defer closer()  // Ensures all events processed before exit
func NewSubscriber(events <-chan Event, opts ...func(*Subscriber)) func() {
	s := &Subscriber{
		done:                  make(chan struct{}),
		runStartedHandler:     func(RunStarted) {},     // nop by default
		pageCompletedHandler:  func(PageCompleted) {},  // nop by default
		pageSkippedHandler:    func(PageSkipped) {},    // nop by default
		addressSkippedHandler: func(AddressSkipped) {}, // nop by default
		runDoneHandler:        func(RunDone) {},        // nop by default
		runShutdownHandler:    func(RunShutdown) {},    // nop by default
		runErrorHandler:       func(RunError) {},       // nop by default
	}

	for _, opt := range opts {
		opt(s)
	}

	// Start the dispatch loop immediately
	go func() {
		defer close(s.done)
		for ev := range events {
			switch e := ev.(type) {
			case RunStarted:
				s.runStartedHandler(e)
			case PageCompleted:
				s.pageCompletedHandler(e)
			case PageSkipped:
				s.pageSkippedHandler(e)
			case AddressSkipped:
				s.addressSkippedHandler(e)
			case RunDone:
				s.runDoneHandler(e)
			case RunShutdown:
				s.runShutdownHandler(e)
			case RunError:
				s.runErrorHandler(e)
			}
		}
	}()

	return func() {
		<-s.done
	}
}
