package lsm303agr

import (
	"fmt"
	"time"

	"bubblelevel/internal/i2c"
)

var sleep = time.Sleep

// Minimal LSM303AGR accelerometer driver (the sensor on the micro:bit v2 and
// several Pi hats).
//
// High-resolution mode, ±2 g full scale: 12-bit left-justified samples at
// 1 mg/LSB. The magnetometer is only probed for its chip ID.

const (
	addrAccel = 0x19
	addrMag   = 0x1E

	regWhoAmIA = 0x0F
	whoAmIAVal = 0x33
	regWhoAmIM = 0x4F
	whoAmIMVal = 0x40

	regCtrl1A  = 0x20
	regCtrl4A  = 0x23
	regStatusA = 0x27
	regOutXLA  = 0x28

	autoIncrement = 0x80

	ctrl1XYZEnable = 0x07
	ctrl4BDU       = 0x80
	ctrl4HR        = 0x08

	statusZYXDA = 0x08
)

// odrBits maps output data rates in Hz to CTRL_REG1_A ODR[3:0].
var odrBits = map[int]byte{
	1:   0x1,
	10:  0x2,
	25:  0x3,
	50:  0x4,
	100: 0x5,
	200: 0x6,
	400: 0x7,
}

type regIO interface {
	ReadRegU8(reg byte) (byte, error)
	ReadReg(reg byte, dst []byte) error
	WriteReg(reg, value byte) error
}

type Device struct {
	accel regIO
	mag   regIO

	accelID byte
	magID   byte
}

func DefaultAccelAddress() uint16 { return addrAccel }

func DefaultMagAddress() uint16 { return addrMag }

// New probes both chips and configures the accelerometer for rateHz (one of
// 1, 10, 25, 50, 100, 200, 400; zero means 50).
func New(accel, mag *i2c.Dev, rateHz int) (*Device, error) {
	if accel == nil {
		return nil, fmt.Errorf("lsm303agr: accel dev is nil")
	}
	// A nil *i2c.Dev must not become a non-nil interface.
	var m regIO
	if mag != nil {
		m = mag
	}
	return newWithIO(accel, m, rateHz)
}

func newWithIO(accel, mag regIO, rateHz int) (*Device, error) {
	if accel == nil {
		return nil, fmt.Errorf("lsm303agr: accel dev is nil")
	}
	if rateHz == 0 {
		rateHz = 50
	}
	odr, ok := odrBits[rateHz]
	if !ok {
		return nil, fmt.Errorf("lsm303agr: unsupported data rate %d Hz", rateHz)
	}

	d := &Device{accel: accel, mag: mag}

	// First write the register address, then read the chip's response.
	who, err := d.accel.ReadRegU8(regWhoAmIA)
	if err != nil {
		return nil, fmt.Errorf("lsm303agr: accel whoami read failed: %w", err)
	}
	if who != whoAmIAVal {
		return nil, fmt.Errorf("lsm303agr: accel whoami=0x%02X want 0x%02X", who, whoAmIAVal)
	}
	d.accelID = who

	if d.mag != nil {
		who, err := d.mag.ReadRegU8(regWhoAmIM)
		if err != nil {
			return nil, fmt.Errorf("lsm303agr: mag whoami read failed: %w", err)
		}
		if who != whoAmIMVal {
			return nil, fmt.Errorf("lsm303agr: mag whoami=0x%02X want 0x%02X", who, whoAmIMVal)
		}
		d.magID = who
	}

	if err := d.accel.WriteReg(regCtrl4A, ctrl4BDU|ctrl4HR); err != nil {
		return nil, fmt.Errorf("lsm303agr: ctrl4 write failed: %w", err)
	}
	if err := d.accel.WriteReg(regCtrl1A, odr<<4|ctrl1XYZEnable); err != nil {
		return nil, fmt.Errorf("lsm303agr: ctrl1 write failed: %w", err)
	}
	// Turn-on time in HR mode is 7/ODR; wait it out before the first read.
	sleep(7 * time.Second / time.Duration(rateHz))
	return d, nil
}

// ChipIDs returns the WHO_AM_I values read during probing. magID is zero when
// the magnetometer wasn't probed.
func (d *Device) ChipIDs() (accelID, magID byte) {
	if d == nil {
		return 0, 0
	}
	return d.accelID, d.magID
}

// ReadAcceleration returns the latest sample in milli-g.
func (d *Device) ReadAcceleration() (x, y, z int32, err error) {
	if d == nil {
		return 0, 0, 0, fmt.Errorf("lsm303agr: device is nil")
	}
	var buf [6]byte
	if err := d.accel.ReadReg(regOutXLA|autoIncrement, buf[:]); err != nil {
		return 0, 0, 0, fmt.Errorf("lsm303agr: read accel failed: %w", err)
	}
	return decodeAxis(buf[0], buf[1]), decodeAxis(buf[2], buf[3]), decodeAxis(buf[4], buf[5]), nil
}

// DataReady reports whether a new XYZ sample is available. Bus errors read as
// "not ready"; the next ReadAcceleration surfaces them.
func (d *Device) DataReady() bool {
	if d == nil {
		return false
	}
	st, err := d.accel.ReadRegU8(regStatusA)
	if err != nil {
		return false
	}
	return st&statusZYXDA != 0
}

// decodeAxis converts a little-endian, left-justified 12-bit sample to mg.
func decodeAxis(lo, hi byte) int32 {
	raw := int16(uint16(hi)<<8 | uint16(lo))
	return int32(raw >> 4)
}
