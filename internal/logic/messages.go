package logic

import "fmt"

// Console lines. Byte-exact; the controller appends the newline.
const (
	MsgWelcome           = "Welcome to enhanced alarm system model 218-W25"
	MsgEngineStarted     = "Engine started!"
	MsgIgnitionInhibited = "Ignition inhibited."
	MsgPassengerSeat     = "Passenger seat not occupied."
	MsgDriverSeat        = "Driver seat not occupied."
	MsgPassengerBelt     = "Passenger seatbelt not fastened."
	MsgDriverBelt        = "Drivers seatbelt not fastened."
)

// Display layout.
const (
	DisplayHeader    = "Wipers: "
	DisplayBlankLine = "          "
	DisplayLabelCol  = 8
	DisplaySpeedRow  = 0
	DisplayPeriodRow = 1
)

// speedLabel returns the padded speed label written at DisplayLabelCol.
func speedLabel(c WiperClass) string {
	switch c {
	case WiperOff:
		return "OFF "
	case WiperIntermittent:
		return "INT  "
	case WiperLow:
		return "LOW "
	case WiperHigh:
		return "HIGH"
	}
	panic(fmt.Sprintf("logic: unknown wiper class %q", c))
}

// periodLabel returns the second display line for a wiper setting.
func periodLabel(w Wiper) string {
	if w.Class != WiperIntermittent {
		return DisplayBlankLine
	}
	switch w.Period {
	case PeriodShort:
		return "INT: SHORT"
	case PeriodMedium:
		return "INT: MED  "
	case PeriodLong:
		return "INT: LONG  "
	}
	panic(fmt.Sprintf("logic: unknown intermittent period %q", w.Period))
}

// unmetConditions lists failed preconditions in diagnostic order.
func unmetConditions(d DigitalSnapshot) []Condition {
	var unmet []Condition
	if !d.PassengerSeat {
		unmet = append(unmet, CondPassengerSeat)
	}
	if !d.DriverSeat {
		unmet = append(unmet, CondDriverSeat)
	}
	if !d.PassengerBelt {
		unmet = append(unmet, CondPassengerBelt)
	}
	if !d.DriverBelt {
		unmet = append(unmet, CondDriverBelt)
	}
	return unmet
}

// Message returns the diagnostic console line for an unmet condition.
func (c Condition) Message() string {
	switch c {
	case CondPassengerSeat:
		return MsgPassengerSeat
	case CondDriverSeat:
		return MsgDriverSeat
	case CondPassengerBelt:
		return MsgPassengerBelt
	case CondDriverBelt:
		return MsgDriverBelt
	}
	panic(fmt.Sprintf("logic: unknown condition %q", c))
}
