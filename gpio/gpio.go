// Package gpio declares the pin capabilities consumed by the cartridge
// bus layers. Implementations are provided by the board support code or,
// for in-process testing, by the simcart package.
package gpio

// InputPin is a pin sampled by the controller.
type InputPin interface {
	IsHigh() bool
}

// OutputPin is a pin driven by the controller. Strobe and shift register
// lines only ever need this capability.
type OutputPin interface {
	SetHigh()
	SetLow()
}

// Pin is a line whose electrical direction can be switched at runtime.
// The data bus consumes one of these per data line; the value returned
// by AsInput or AsOutput reflects the new direction and the previous
// view must not be used again.
type Pin interface {
	AsInput() InputPin
	AsOutput() OutputPin
}
