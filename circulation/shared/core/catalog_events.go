package core

import (
	"time"
)

const (
	UserRegisteredEventType         = "UserRegistered"
	ItemAddedToCatalogEventType     = "ItemAddedToCatalog"
	CopyAddedToCirculationEventType = "CopyAddedToCirculation"
)

// Role is a user's role in the library.
type Role = string

const (
	RolePatron   Role = "patron"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// UserRegistered records a new library account.
type UserRegistered struct {
	UserID     UserIDString
	Name       string
	Role       Role
	OccurredAt time.Time
}

func BuildUserRegistered(userID, name string, role Role, occurredAt time.Time) DomainEvent {
	return UserRegistered{
		UserID:     userID,
		Name:       name,
		Role:       role,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e UserRegistered) IsEventType() string      { return UserRegisteredEventType }
func (e UserRegistered) HasOccurredAt() time.Time { return e.OccurredAt }
func (e UserRegistered) IsErrorEvent() bool       { return false }

// ItemAddedToCatalog records a catalog entry that copies can be added to.
type ItemAddedToCatalog struct {
	ItemID     ItemIDString
	Title      string
	Author     string
	OccurredAt time.Time
}

func BuildItemAddedToCatalog(itemID, title, author string, occurredAt time.Time) DomainEvent {
	return ItemAddedToCatalog{
		ItemID:     itemID,
		Title:      title,
		Author:     author,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e ItemAddedToCatalog) IsEventType() string      { return ItemAddedToCatalogEventType }
func (e ItemAddedToCatalog) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ItemAddedToCatalog) IsErrorEvent() bool       { return false }

// CopyAddedToCirculation records a new physical copy of an item.
type CopyAddedToCirculation struct {
	CopyID     CopyIDString
	ItemID     ItemIDString
	OccurredAt time.Time
}

func BuildCopyAddedToCirculation(copyID, itemID string, occurredAt time.Time) DomainEvent {
	return CopyAddedToCirculation{
		CopyID:     copyID,
		ItemID:     itemID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e CopyAddedToCirculation) IsEventType() string      { return CopyAddedToCirculationEventType }
func (e CopyAddedToCirculation) HasOccurredAt() time.Time { return e.OccurredAt }
func (e CopyAddedToCirculation) IsErrorEvent() bool       { return false }
