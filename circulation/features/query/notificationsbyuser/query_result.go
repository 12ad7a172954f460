package notificationsbyuser

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/inbox"
)

// Notifications is the query result, newest first.
type Notifications struct {
	UserID        string
	Notifications []inbox.Notification
	Unread        int
}
