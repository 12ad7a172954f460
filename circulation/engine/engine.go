// Package engine is the application service of the circulation system.
//
// It composes the command and query slices, stamps commands with the engine clock, and performs the
// cross-component follow-ups that the slices leave to their caller: notifications derived from
// appended events, their fan-out to the Publisher, and the periodic sweeps.
package engine

import (
	"log/slog"
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/accepthold"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/addcatalogitem"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/addcopy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/cancelreservation"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/checkoutcopy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/createreservation"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/declinehold"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/dismissnotification"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/emitnotification"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/expirereadyholds"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/markloanlost"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/marknotificationread"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/payallfines"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/payfine"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/placehold"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/promotehold"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/registerroom"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/registeruser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/removeroom"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/returncopy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/updateroom"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/waivefine"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/fineestimate"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/finesbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/holdsbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/itemqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/loansbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/notificationsbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/overdueloans"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/roomreservations"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/rooms"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/notify"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/payment"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

// Engine exposes every circulation operation. It is safe for concurrent use.
type Engine struct {
	clock      timewindow.Clock
	window     timewindow.TimeWindow
	policy     core.Policy
	calculator finepolicy.Calculator
	publisher  notify.Publisher
	logger     shell.ContextualLogger
	lookup     shell.QueryRunner

	registerUser         registeruser.CommandHandler
	addCatalogItem       addcatalogitem.CommandHandler
	addCopy              addcopy.CommandHandler
	checkoutCopy         checkoutcopy.CommandHandler
	returnCopy           returncopy.CommandHandler
	markLoanLost         markloanlost.CommandHandler
	placeHold            placehold.CommandHandler
	promoteHold          promotehold.CommandHandler
	acceptHold           accepthold.CommandHandler
	declineHold          declinehold.CommandHandler
	expireReadyHolds     expirereadyholds.CommandHandler
	registerRoom         registerroom.CommandHandler
	updateRoom           updateroom.CommandHandler
	removeRoom           removeroom.CommandHandler
	createReservation    createreservation.CommandHandler
	cancelReservation    cancelreservation.CommandHandler
	payFine              payfine.CommandHandler
	payAllFines          payallfines.CommandHandler
	waiveFine            waivefine.CommandHandler
	emitNotification     emitnotification.CommandHandler
	markNotificationRead marknotificationread.CommandHandler
	dismissNotification  dismissnotification.CommandHandler

	loansByUser         loansbyuser.QueryHandler
	fineEstimate        fineestimate.QueryHandler
	holdsByUser         holdsbyuser.QueryHandler
	itemQueue           itemqueue.QueryHandler
	rooms               rooms.QueryHandler
	roomReservations    roomreservations.QueryHandler
	finesByUser         finesbyuser.QueryHandler
	notificationsByUser notificationsbyuser.QueryHandler
	overdueLoans        overdueloans.QueryHandler
}

// Option configures an Engine.
type Option func(*settings)

type settings struct {
	clock        timewindow.Clock
	window       timewindow.TimeWindow
	policy       core.Policy
	gateway      payment.Gateway
	publisher    notify.Publisher
	logger       shell.ContextualLogger
	shellOptions []shell.Option
}

// WithClock sets the time source. Defaults to the system clock.
func WithClock(clock timewindow.Clock) Option {
	return func(s *settings) {
		s.clock = clock
	}
}

// WithTimeWindow sets the library location. Defaults to UTC.
func WithTimeWindow(window timewindow.TimeWindow) Option {
	return func(s *settings) {
		s.window = window
	}
}

// WithPolicy replaces the default circulation rules.
func WithPolicy(policy core.Policy) Option {
	return func(s *settings) {
		s.policy = policy
	}
}

// WithPaymentGateway sets the gateway that charges fine payments. Defaults to the desk gateway.
func WithPaymentGateway(gateway payment.Gateway) Option {
	return func(s *settings) {
		s.gateway = gateway
	}
}

// WithPublisher sets where emitted notifications are fanned out to. Defaults to notify.Discard.
func WithPublisher(publisher notify.Publisher) Option {
	return func(s *settings) {
		s.publisher = publisher
	}
}

// WithLogger sets the logger for the engine and all handlers.
func WithLogger(logger shell.ContextualLogger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithShellOptions passes retry and tracing options to every handler.
func WithShellOptions(opts ...shell.Option) Option {
	return func(s *settings) {
		s.shellOptions = append(s.shellOptions, opts...)
	}
}

// New wires all handlers against one event store.
func New(eventStore shell.EventStore, opts ...Option) *Engine {
	s := settings{
		clock:     timewindow.SystemClock{},
		window:    timewindow.New(nil),
		policy:    core.DefaultPolicy(),
		publisher: notify.Discard{},
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&s)
	}

	if s.gateway == nil {
		s.gateway = payment.NewDeskGateway(s.clock)
	}

	handlerOpts := append([]shell.Option{shell.WithLogger(s.logger)}, s.shellOptions...)
	calculator := finepolicy.NewCalculator(s.window, s.policy)

	return &Engine{
		clock:      s.clock,
		window:     s.window,
		policy:     s.policy,
		calculator: calculator,
		publisher:  s.publisher,
		logger:     s.logger,
		lookup:     shell.NewQueryRunner(eventStore, handlerOpts...),

		registerUser:         registeruser.NewCommandHandler(eventStore, handlerOpts...),
		addCatalogItem:       addcatalogitem.NewCommandHandler(eventStore, handlerOpts...),
		addCopy:              addcopy.NewCommandHandler(eventStore, s.policy, handlerOpts...),
		checkoutCopy:         checkoutcopy.NewCommandHandler(eventStore, s.policy, handlerOpts...),
		returnCopy:           returncopy.NewCommandHandler(eventStore, calculator, s.policy, handlerOpts...),
		markLoanLost:         markloanlost.NewCommandHandler(eventStore, calculator, handlerOpts...),
		placeHold:            placehold.NewCommandHandler(eventStore, s.policy, handlerOpts...),
		promoteHold:          promotehold.NewCommandHandler(eventStore, s.policy, handlerOpts...),
		acceptHold:           accepthold.NewCommandHandler(eventStore, s.policy, handlerOpts...),
		declineHold:          declinehold.NewCommandHandler(eventStore, s.policy, handlerOpts...),
		expireReadyHolds:     expirereadyholds.NewCommandHandler(eventStore, s.policy, handlerOpts...),
		registerRoom:         registerroom.NewCommandHandler(eventStore, handlerOpts...),
		updateRoom:           updateroom.NewCommandHandler(eventStore, handlerOpts...),
		removeRoom:           removeroom.NewCommandHandler(eventStore, handlerOpts...),
		createReservation:    createreservation.NewCommandHandler(eventStore, s.window, s.policy, handlerOpts...),
		cancelReservation:    cancelreservation.NewCommandHandler(eventStore, handlerOpts...),
		payFine:              payfine.NewCommandHandler(eventStore, s.gateway, handlerOpts...),
		payAllFines:          payallfines.NewCommandHandler(eventStore, s.gateway, handlerOpts...),
		waiveFine:            waivefine.NewCommandHandler(eventStore, handlerOpts...),
		emitNotification:     emitnotification.NewCommandHandler(eventStore, handlerOpts...),
		markNotificationRead: marknotificationread.NewCommandHandler(eventStore, handlerOpts...),
		dismissNotification:  dismissnotification.NewCommandHandler(eventStore, handlerOpts...),

		loansByUser:         loansbyuser.NewQueryHandler(eventStore, calculator, handlerOpts...),
		fineEstimate:        fineestimate.NewQueryHandler(eventStore, calculator, handlerOpts...),
		holdsByUser:         holdsbyuser.NewQueryHandler(eventStore, handlerOpts...),
		itemQueue:           itemqueue.NewQueryHandler(eventStore, handlerOpts...),
		rooms:               rooms.NewQueryHandler(eventStore, handlerOpts...),
		roomReservations:    roomreservations.NewQueryHandler(eventStore, handlerOpts...),
		finesByUser:         finesbyuser.NewQueryHandler(eventStore, handlerOpts...),
		notificationsByUser: notificationsbyuser.NewQueryHandler(eventStore, handlerOpts...),
		overdueLoans:        overdueloans.NewQueryHandler(eventStore, calculator, handlerOpts...),
	}
}

// Policy returns the circulation rules in effect.
func (e *Engine) Policy() core.Policy {
	return e.policy
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}
