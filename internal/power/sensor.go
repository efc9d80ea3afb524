package power

import (
	"codeberg.org/renvik/pistat/internal/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ina219"
	"periph.io/x/host/v3"
)

// SensorReading is one measurement from the directly-wired current sensor.
type SensorReading struct {
	Volts float64
	Amps  float64
	Watts float64
}

// Sensor is the optional secondary power source. It measures the supply the
// PMIC cannot see, so its wattage is added on top of the rail total.
type Sensor interface {
	Sense() (SensorReading, error)
	Close() error
}

type ina219Sensor struct {
	bus i2c.BusCloser
	dev *ina219.Dev
}

// OpenINA219 opens the shunt current sensor on the given I2C bus.
func OpenINA219(busName string, addr int) (Sensor, error) {
	errFactory := errors.New()

	if _, err := host.Init(); err != nil {
		return nil, errFactory.Wrap(ErrSensorOpen, err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errFactory.Wrap(ErrSensorOpen, err)
	}

	opts := ina219.DefaultOpts
	opts.Address = addr
	dev, err := ina219.New(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, errFactory.Wrap(ErrSensorOpen, err)
	}

	return &ina219Sensor{bus: bus, dev: dev}, nil
}

func (s *ina219Sensor) Sense() (SensorReading, error) {
	pm, err := s.dev.Sense()
	if err != nil {
		return SensorReading{}, errors.New().Wrap(ErrSensorRead, err)
	}

	return SensorReading{
		Volts: float64(pm.Voltage) / float64(physic.Volt),
		Amps:  float64(pm.Current) / float64(physic.Ampere),
		Watts: float64(pm.Power) / float64(physic.Watt),
	}, nil
}

func (s *ina219Sensor) Close() error {
	return s.bus.Close()
}
