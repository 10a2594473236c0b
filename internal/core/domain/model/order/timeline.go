package order

// Timeline flags which lifecycle steps an order has reached.
type Timeline struct {
	Scheduled        bool `json:"scheduled"`
	PickedUp         bool `json:"picked_up"`
	InCleaning       bool `json:"in_cleaning"`
	ReadyForDelivery bool `json:"ready_for_delivery"`
	Delivered        bool `json:"delivered"`
}

// Timeline derives the reached steps from the current status.
func (s Status) Timeline() Timeline {
	return Timeline{
		Scheduled:        s.Reached(Scheduled),
		PickedUp:         s.Reached(PickedUp),
		InCleaning:       s.Reached(InCleaning),
		ReadyForDelivery: s.Reached(ReadyForDelivery),
		Delivered:        s.Reached(Delivered),
	}
}
