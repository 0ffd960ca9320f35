package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Event types emitted by the scheduling service.
const (
	EventAppointmentCreated = "schedule.appointment.created.v1"
	EventAppointmentUpdated = "schedule.appointment.updated.v1"
	EventAppointmentDeleted = "schedule.appointment.deleted.v1"
	EventCustomerCreated    = "schedule.customer.created.v1"
	EventCustomerDeleted    = "schedule.customer.deleted.v1"
	EventUserLogin          = "schedule.user.login.v1"
)
