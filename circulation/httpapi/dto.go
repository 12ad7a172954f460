package httpapi

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/engine"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/fineestimate"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/finesbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/holdsbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/itemqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/loansbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/notificationsbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/overdueloans"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/roomreservations"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/rooms"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/inbox"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

// requests

type CheckoutReq struct {
	CopyID uuid.UUID `json:"copy_id" validate:"required"`
	UserID uuid.UUID `json:"user_id"`
}

type ReturnReq struct {
	LoanID uuid.UUID `json:"loan_id" validate:"required"`
}

type PlaceHoldReq struct {
	ItemID uuid.UUID `json:"item_id" validate:"required"`
}

type CreateReservationReq struct {
	RoomID    uuid.UUID `json:"room_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

type DailyHoursDTO struct {
	Opens  string `json:"opens,omitempty"`
	Closes string `json:"closes,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

type RoomReq struct {
	RoomID   uuid.UUID                `json:"room_id"`
	Name     string                   `json:"name" validate:"required,max=120"`
	Capacity int                      `json:"capacity" validate:"gte=1,lte=500"`
	Hours    map[string]DailyHoursDTO `json:"hours"`
}

type PaymentReq struct {
	Amount       decimal.Decimal `json:"amount"`
	PaymentToken string          `json:"payment_token" validate:"max=256"`
}

type RegisterUserReq struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name" validate:"required,max=200"`
	Role   core.Role `json:"role" validate:"required,oneof=patron employee admin"`
}

type CatalogItemReq struct {
	ItemID uuid.UUID `json:"item_id"`
	Title  string    `json:"title" validate:"required,max=500"`
	Author string    `json:"author" validate:"max=300"`
}

type AddCopyReq struct {
	CopyID uuid.UUID `json:"copy_id"`
}

func (r RoomReq) weeklyHours() (timewindow.WeeklyHours, error) {
	days := make(map[string]timewindow.DailyHours, len(r.Hours))
	for name, daily := range r.Hours {
		days[strings.ToLower(name)] = timewindow.DailyHours{Opens: daily.Opens, Closes: daily.Closes, Closed: daily.Closed}
	}

	return timewindow.ParseWeeklyHours(days)
}

// responses

type LoanDTO struct {
	LoanID        string          `json:"loan_id"`
	CopyID        string          `json:"copy_id"`
	ItemID        string          `json:"item_id"`
	UserID        string          `json:"user_id,omitempty"`
	Title         string          `json:"title,omitempty"`
	Author        string          `json:"author,omitempty"`
	Status        string          `json:"status,omitempty"`
	CheckedOutAt  *time.Time      `json:"checked_out_at,omitempty"`
	DueAt         time.Time       `json:"due_at"`
	ReturnedAt    *time.Time      `json:"returned_at,omitempty"`
	Overdue       bool            `json:"overdue"`
	DaysOverdue   int             `json:"days_overdue"`
	EstimatedFine decimal.Decimal `json:"estimated_fine"`
	LostWarning   bool            `json:"lost_warning,omitempty"`
	Lost          bool            `json:"lost,omitempty"`
}

type LoansDTO struct {
	UserID string    `json:"user_id,omitempty"`
	Loans  []LoanDTO `json:"loans"`
	Count  int       `json:"count"`
	Open   int       `json:"open"`
}

type CheckoutDTO struct {
	LoanID string    `json:"loan_id"`
	CopyID string    `json:"copy_id"`
	ItemID string    `json:"item_id"`
	UserID string    `json:"user_id"`
	DueAt  time.Time `json:"due_at"`
}

type FineDTO struct {
	FineID      string          `json:"fine_id"`
	LoanID      string          `json:"loan_id"`
	ItemID      string          `json:"item_id,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	DaysOverdue int             `json:"days_overdue"`
	Amount      decimal.Decimal `json:"amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      string          `json:"status"`
	AssessedAt  *time.Time      `json:"assessed_at,omitempty"`
	SettledAt   *time.Time      `json:"settled_at,omitempty"`
}

type ReturnDTO struct {
	LoanID     string    `json:"loan_id"`
	CopyID     string    `json:"copy_id"`
	ReturnedAt time.Time `json:"returned_at"`
	Fine       *FineDTO  `json:"fine,omitempty"`
	Promoted   []HoldDTO `json:"promoted_holds"`
}

type FineEstimateDTO struct {
	LoanID      string          `json:"loan_id"`
	FineID      string          `json:"fine_id"`
	LoanStatus  string          `json:"loan_status"`
	DueAt       time.Time       `json:"due_at"`
	DaysOverdue int             `json:"days_overdue"`
	Amount      decimal.Decimal `json:"amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Assessed    bool            `json:"assessed"`
	FineStatus  string          `json:"fine_status,omitempty"`
	WillBeLost  bool            `json:"will_be_lost"`
}

type HoldDTO struct {
	HoldID         string     `json:"hold_id"`
	ItemID         string     `json:"item_id,omitempty"`
	UserID         string     `json:"user_id,omitempty"`
	Title          string     `json:"title,omitempty"`
	Status         string     `json:"status"`
	Position       int        `json:"position,omitempty"`
	QueueLength    int        `json:"queue_length,omitempty"`
	PlacedAt       *time.Time `json:"placed_at,omitempty"`
	CopyID         string     `json:"copy_id,omitempty"`
	AvailableSince *time.Time `json:"available_since,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

type HoldsDTO struct {
	UserID string    `json:"user_id"`
	Holds  []HoldDTO `json:"holds"`
	Count  int       `json:"count"`
}

type CopyDTO struct {
	CopyID  string `json:"copy_id"`
	Status  string `json:"status"`
	HeldFor string `json:"held_for,omitempty"`
}

type ItemQueueDTO struct {
	ItemID          string    `json:"item_id"`
	Title           string    `json:"title"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	Copies          []CopyDTO `json:"copies"`
	Holds           []HoldDTO `json:"holds"`
	Queued          int       `json:"queued"`
}

type RoomDTO struct {
	RoomID   string                   `json:"room_id"`
	Name     string                   `json:"name"`
	Capacity int                      `json:"capacity"`
	Hours    map[string]DailyHoursDTO `json:"hours"`
}

type RoomsDTO struct {
	Rooms []RoomDTO `json:"rooms"`
	Count int       `json:"count"`
}

type ReservationDTO struct {
	ReservationID string    `json:"reservation_id"`
	RoomID        string    `json:"room_id,omitempty"`
	UserID        string    `json:"user_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
}

type RoomReservationsDTO struct {
	RoomID       string           `json:"room_id"`
	RoomName     string           `json:"room_name"`
	Reservations []ReservationDTO `json:"reservations"`
	Count        int              `json:"count"`
}

type FineAccountDTO struct {
	UserID           string          `json:"user_id"`
	Fines            []FineDTO       `json:"fines"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	Locked           bool            `json:"account_locked"`
}

type PaymentDTO struct {
	FineID           string          `json:"fine_id"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	AccountUnlocked  bool            `json:"account_unlocked"`
}

type NotificationDTO struct {
	NotificationID string            `json:"notification_id"`
	Type           string            `json:"type"`
	Status         string            `json:"status"`
	Metadata       map[string]string `json:"metadata"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type NotificationsDTO struct {
	UserID        string            `json:"user_id"`
	Notifications []NotificationDTO `json:"notifications"`
	Unread        int               `json:"unread"`
}

type SweepDTO struct {
	Sweep    string    `json:"sweep"`
	At       time.Time `json:"at"`
	Examined int       `json:"examined"`
	Changed  int       `json:"changed"`
	Failed   int       `json:"failed"`
}

// mappers

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}

func checkoutDTO(e core.CopyCheckedOut) CheckoutDTO {
	return CheckoutDTO{LoanID: e.LoanID, CopyID: e.CopyID, ItemID: e.ItemID, UserID: e.UserID, DueAt: e.DueAt}
}

func returnDTO(outcome engine.ReturnOutcome) ReturnDTO {
	dto := ReturnDTO{
		LoanID:     outcome.Returned.LoanID,
		CopyID:     outcome.Returned.CopyID,
		ReturnedAt: outcome.Returned.OccurredAt,
		Promoted:   promotedDTOs(outcome.Promoted),
	}

	if fine := outcome.Fine; fine != nil {
		dto.Fine = &FineDTO{
			FineID:      fine.FineID,
			LoanID:      fine.LoanID,
			ItemID:      fine.ItemID,
			Reason:      fine.Reason,
			DaysOverdue: fine.DaysOverdue,
			Amount:      fine.Amount,
			Outstanding: fine.Amount,
			Status:      finepolicy.FineOpen,
			AssessedAt:  optionalTime(fine.OccurredAt),
		}
	}

	return dto
}

func promotedDTOs(events []core.HoldPromoted) []HoldDTO {
	result := make([]HoldDTO, 0, len(events))
	for _, e := range events {
		result = append(result, HoldDTO{
			HoldID:         e.HoldID,
			ItemID:         e.ItemID,
			UserID:         e.UserID,
			Status:         holdqueue.HoldReady,
			CopyID:         e.CopyID,
			AvailableSince: optionalTime(e.AvailableSince),
			ExpiresAt:      optionalTime(e.ExpiresAt),
		})
	}

	return result
}

func loansDTO(result loansbyuser.LoansOfUser) LoansDTO {
	loans := make([]LoanDTO, 0, len(result.Loans))
	for _, l := range result.Loans {
		loans = append(loans, LoanDTO{
			LoanID:        l.LoanID,
			CopyID:        l.CopyID,
			ItemID:        l.ItemID,
			Title:         l.Title,
			Author:        l.Author,
			Status:        l.Status,
			CheckedOutAt:  optionalTime(l.CheckedOutAt),
			DueAt:         l.DueAt,
			ReturnedAt:    optionalTime(l.ReturnedAt),
			Overdue:       l.Overdue,
			DaysOverdue:   l.DaysOverdue,
			EstimatedFine: l.EstimatedFine,
		})
	}

	return LoansDTO{UserID: result.UserID, Loans: loans, Count: result.Count, Open: result.Open}
}

func openLoansDTO(result overdueloans.OpenLoans) LoansDTO {
	loans := make([]LoanDTO, 0, len(result.Loans))
	for _, l := range result.Loans {
		loans = append(loans, LoanDTO{
			LoanID:        l.LoanID,
			CopyID:        l.CopyID,
			ItemID:        l.ItemID,
			UserID:        l.UserID,
			CheckedOutAt:  optionalTime(l.CheckedOutAt),
			DueAt:         l.DueAt,
			Overdue:       l.Overdue,
			DaysOverdue:   l.DaysOverdue,
			EstimatedFine: l.EstimatedFine,
			LostWarning:   l.LostWarning,
			Lost:          l.Lost,
		})
	}

	return LoansDTO{Loans: loans, Count: result.Count, Open: result.Count}
}

func fineEstimateDTO(e fineestimate.Estimate) FineEstimateDTO {
	return FineEstimateDTO{
		LoanID:      e.LoanID,
		FineID:      e.FineID,
		LoanStatus:  e.LoanStatus,
		DueAt:       e.DueAt,
		DaysOverdue: e.DaysOverdue,
		Amount:      e.Amount,
		Outstanding: e.Outstanding,
		Assessed:    e.Assessed,
		FineStatus:  e.FineStatus,
		WillBeLost:  e.WillBeLost,
	}
}

func holdsDTO(result holdsbyuser.HoldsOfUser) HoldsDTO {
	holds := make([]HoldDTO, 0, len(result.Holds))
	for _, h := range result.Holds {
		holds = append(holds, HoldDTO{
			HoldID:         h.HoldID,
			ItemID:         h.ItemID,
			Title:          h.Title,
			Status:         h.Status,
			Position:       h.Position,
			QueueLength:    h.QueueLength,
			PlacedAt:       optionalTime(h.PlacedAt),
			CopyID:         h.CopyID,
			AvailableSince: optionalTime(h.AvailableSince),
			ExpiresAt:      optionalTime(h.ExpiresAt),
		})
	}

	return HoldsDTO{UserID: result.UserID, Holds: holds, Count: result.Count}
}

func itemQueueDTO(result itemqueue.ItemQueue) ItemQueueDTO {
	copies := make([]CopyDTO, 0, len(result.Copies))
	for _, c := range result.Copies {
		copies = append(copies, CopyDTO{CopyID: c.CopyID, Status: c.Status, HeldFor: c.HeldFor})
	}

	holds := make([]HoldDTO, 0, len(result.Holds))
	for _, h := range result.Holds {
		holds = append(holds, HoldDTO{
			HoldID:    h.HoldID,
			UserID:    h.UserID,
			Status:    h.Status,
			Position:  h.Position,
			PlacedAt:  optionalTime(h.PlacedAt),
			CopyID:    h.CopyID,
			ExpiresAt: optionalTime(h.ExpiresAt),
		})
	}

	return ItemQueueDTO{
		ItemID:          result.ItemID,
		Title:           result.Title,
		TotalCopies:     result.TotalCopies,
		AvailableCopies: result.AvailableCopies,
		Copies:          copies,
		Holds:           holds,
		Queued:          result.Queued,
	}
}

func hoursDTO(hours timewindow.WeeklyHours) map[string]DailyHoursDTO {
	result := make(map[string]DailyHoursDTO, len(hours))
	for day, daily := range hours {
		result[strings.ToLower(time.Weekday(day).String())] = DailyHoursDTO{
			Opens:  daily.Opens,
			Closes: daily.Closes,
			Closed: daily.Closed,
		}
	}

	return result
}

func roomsDTO(result rooms.Rooms) RoomsDTO {
	list := make([]RoomDTO, 0, len(result.Rooms))
	for _, r := range result.Rooms {
		list = append(list, RoomDTO{RoomID: r.RoomID, Name: r.Name, Capacity: r.Capacity, Hours: hoursDTO(r.Hours)})
	}

	return RoomsDTO{Rooms: list, Count: result.Count}
}

func reservationDTO(e core.ReservationCreated) ReservationDTO {
	return ReservationDTO{
		ReservationID: e.ReservationID,
		RoomID:        e.RoomID,
		UserID:        e.UserID,
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		Status:        roomschedule.ReservationActive,
	}
}

func roomReservationsDTO(result roomreservations.RoomReservations) RoomReservationsDTO {
	list := make([]ReservationDTO, 0, len(result.Reservations))
	for _, r := range result.Reservations {
		list = append(list, ReservationDTO{
			ReservationID: r.ReservationID,
			UserID:        r.UserID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			Status:        r.Status,
		})
	}

	return RoomReservationsDTO{RoomID: result.RoomID, RoomName: result.RoomName, Reservations: list, Count: result.Count}
}

func fineAccountDTO(result finesbyuser.FineAccount) FineAccountDTO {
	fines := make([]FineDTO, 0, len(result.Fines))
	for _, f := range result.Fines {
		fines = append(fines, FineDTO{
			FineID:      f.FineID,
			LoanID:      f.LoanID,
			ItemID:      f.ItemID,
			Reason:      f.Reason,
			DaysOverdue: f.DaysOverdue,
			Amount:      f.Amount,
			Outstanding: f.Outstanding,
			Status:      f.Status,
			AssessedAt:  optionalTime(f.AssessedAt),
			SettledAt:   optionalTime(f.SettledAt),
		})
	}

	return FineAccountDTO{
		UserID:           result.UserID,
		Fines:            fines,
		TotalOutstanding: result.TotalOutstanding,
		Locked:           result.Locked,
	}
}

func paymentDTO(e core.FinePaid) PaymentDTO {
	return PaymentDTO{
		FineID:           e.FineID,
		Amount:           e.Amount,
		PaymentReference: e.PaymentReference,
		AccountUnlocked:  e.UnlocksAccount,
	}
}

func notificationsDTO(result notificationsbyuser.Notifications) NotificationsDTO {
	list := make([]NotificationDTO, 0, len(result.Notifications))
	for _, n := range result.Notifications {
		list = append(list, notificationDTO(n))
	}

	return NotificationsDTO{UserID: result.UserID, Notifications: list, Unread: result.Unread}
}

func notificationDTO(n inbox.Notification) NotificationDTO {
	return NotificationDTO{
		NotificationID: n.NotificationID,
		Type:           n.Type,
		Status:         n.Status,
		Metadata:       n.Metadata,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
}

func sweepDTO(report engine.SweepReport) SweepDTO {
	return SweepDTO{
		Sweep:    report.Sweep,
		At:       report.At,
		Examined: report.Examined,
		Changed:  report.Changed,
		Failed:   report.Failed,
	}
}
