package bookingRepo

import "carebook/models"

// BookingRepository defines the interface for child-scoped booking access.
// "Child has no bookings yet" is an empty result, never an error.
type BookingRepository interface {
	ListBookingsForChild(childID string) ([]models.ExistingBooking, error)
	ListBookedDatesForChild(childID string) ([]string, error)
	CreateBooking(booking *models.Booking) error
}
