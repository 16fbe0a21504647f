package service

import "github.com/iliyamo/hotel-front-desk/internal/model"

// reservationTransitions lists every legal reservation status change.
// Self-loops are absent on purpose so a repeated request cannot write a
// second history row.
var reservationTransitions = map[model.ReservationStatus][]model.ReservationStatus{
	model.ReservationPending:    {model.ReservationConfirmed, model.ReservationCancelled},
	model.ReservationConfirmed:  {model.ReservationCheckedIn, model.ReservationCancelled},
	model.ReservationCheckedIn:  {model.ReservationCheckedOut},
	model.ReservationCheckedOut: {},
	model.ReservationCancelled:  {},
}

// addonOrderTransitions is the linear kitchen path plus cancel from any
// non-terminal state.
var addonOrderTransitions = map[model.AddonOrderStatus][]model.AddonOrderStatus{
	model.AddonOrderPending:   {model.AddonOrderPreparing, model.AddonOrderCancelled},
	model.AddonOrderPreparing: {model.AddonOrderReady, model.AddonOrderCancelled},
	model.AddonOrderReady:     {model.AddonOrderDelivered, model.AddonOrderCancelled},
	model.AddonOrderDelivered: {},
	model.AddonOrderCancelled: {},
}

// CanTransition reports whether a reservation may move from one status to
// another.
func CanTransition(from, to model.ReservationStatus) bool {
	for _, s := range reservationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionOrder reports whether an add-on order may move from one
// status to another.
func CanTransitionOrder(from, to model.AddonOrderStatus) bool {
	for _, s := range addonOrderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
