// Package createreservation implements the CreateReservation use case of the room scheduler.
//
// The operating-hours and overlap checks and the insert form one conditional append on the room's
// events, so two overlapping bookings racing for the same room end with exactly one success.
package createreservation
