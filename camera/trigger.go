package camera

// TriggerMode selects free-run vs externally/software-triggered capture.
type TriggerMode int

const (
	TriggerOff TriggerMode = iota
	TriggerStandard
	TriggerBulb
)

// TriggerSource selects where a trigger signal originates.
type TriggerSource int

const (
	TriggerSoftware TriggerSource = iota
	TriggerLine0
	TriggerLine1
	TriggerLine2
	TriggerLine3
)

// TriggerPolarity selects which edge/level of the trigger line fires.
type TriggerPolarity int

const (
	TriggerRisingEdge TriggerPolarity = iota
	TriggerFallingEdge
	TriggerHighLevel
	TriggerLowLevel
)

// TriggerConfig configures hardware trigger semantics, per spec.md §3.
// Accepting this struct is the full extent of trigger support this core
// provides (spec.md §1 Non-goals: "hardware trigger semantics beyond
// acceptance of a config struct").
type TriggerConfig struct {
	Mode     TriggerMode
	Source   TriggerSource
	Polarity TriggerPolarity
	DelayUs  uint32
}

// DefaultTriggerConfig matches the source's Default impl: trigger off,
// software source, rising edge, no delay.
func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		Mode:     TriggerOff,
		Source:   TriggerSoftware,
		Polarity: TriggerRisingEdge,
		DelayUs:  0,
	}
}
