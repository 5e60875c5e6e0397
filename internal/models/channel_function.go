package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChannelFunction is the behavioral role assigned to a channel. Values match the device protocol.
type ChannelFunction int32

const (
	FuncNone                        ChannelFunction = 0
	FuncControllingTheGatewayLock   ChannelFunction = 10
	FuncControllingTheGate          ChannelFunction = 20
	FuncControllingTheGarageDoor    ChannelFunction = 30
	FuncThermometer                 ChannelFunction = 40
	FuncOpeningSensorGateway        ChannelFunction = 50
	FuncOpeningSensorGate           ChannelFunction = 60
	FuncOpeningSensorGarageDoor     ChannelFunction = 70
	FuncNoLiquidSensor              ChannelFunction = 80
	FuncControllingTheDoorLock      ChannelFunction = 90
	FuncOpeningSensorDoor           ChannelFunction = 100
	FuncControllingTheRollerShutter ChannelFunction = 110
	FuncOpeningSensorRollerShutter  ChannelFunction = 120
	FuncPowerSwitch                 ChannelFunction = 130
	FuncLightSwitch                 ChannelFunction = 140
	FuncDimmer                      ChannelFunction = 180
	FuncRGBLighting                 ChannelFunction = 190
	FuncDimmerAndRGBLighting        ChannelFunction = 200
	FuncStaircaseTimer              ChannelFunction = 300
	FuncControllingTheRoofWindow    ChannelFunction = 410
	FuncOpeningSensorRoofWindow     ChannelFunction = 420
	FuncValveOpenClose              ChannelFunction = 500
)

var channelFunctionNames = map[ChannelFunction]string{
	FuncNone:                        "NONE",
	FuncControllingTheGatewayLock:   "CONTROLLINGTHEGATEWAYLOCK",
	FuncControllingTheGate:          "CONTROLLINGTHEGATE",
	FuncControllingTheGarageDoor:    "CONTROLLINGTHEGARAGEDOOR",
	FuncThermometer:                 "THERMOMETER",
	FuncOpeningSensorGateway:        "OPENINGSENSOR_GATEWAY",
	FuncOpeningSensorGate:           "OPENINGSENSOR_GATE",
	FuncOpeningSensorGarageDoor:     "OPENINGSENSOR_GARAGEDOOR",
	FuncNoLiquidSensor:              "NOLIQUIDSENSOR",
	FuncControllingTheDoorLock:      "CONTROLLINGTHEDOORLOCK",
	FuncOpeningSensorDoor:           "OPENINGSENSOR_DOOR",
	FuncControllingTheRollerShutter: "CONTROLLINGTHEROLLERSHUTTER",
	FuncOpeningSensorRollerShutter:  "OPENINGSENSOR_ROLLERSHUTTER",
	FuncPowerSwitch:                 "POWERSWITCH",
	FuncLightSwitch:                 "LIGHTSWITCH",
	FuncDimmer:                      "DIMMER",
	FuncRGBLighting:                 "RGBLIGHTING",
	FuncDimmerAndRGBLighting:        "DIMMERANDRGBLIGHTING",
	FuncStaircaseTimer:              "STAIRCASETIMER",
	FuncControllingTheRoofWindow:    "CONTROLLINGTHEROOFWINDOW",
	FuncOpeningSensorRoofWindow:     "OPENINGSENSOR_ROOFWINDOW",
	FuncValveOpenClose:              "VALVEOPENCLOSE",
}

func (f ChannelFunction) String() string {
	if name, ok := channelFunctionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("ChannelFunction(%d)", int32(f))
}

// Known reports whether f is one of the declared functions.
func (f ChannelFunction) Known() bool {
	_, ok := channelFunctionNames[f]
	return ok
}

// ParseChannelFunction accepts the canonical name in any case.
func ParseChannelFunction(s string) (ChannelFunction, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for f, n := range channelFunctionNames {
		if n == name {
			return f, nil
		}
	}
	return FuncNone, fmt.Errorf("unknown channel function %q", s)
}

func (f ChannelFunction) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *ChannelFunction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseChannelFunction(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ChannelType is the hardware kind of a channel.
type ChannelType int32

const (
	TypeSensorNO         ChannelType = 1000
	TypeSensorNC         ChannelType = 1010
	TypeRelay            ChannelType = 2900
	TypeThermometer      ChannelType = 3034
	TypeDimmer           ChannelType = 4000
	TypeRGBLEDController ChannelType = 4010
	TypeDimmerAndRGBLED  ChannelType = 4020
	TypeValveOpenClose   ChannelType = 7000
)

var channelTypeNames = map[ChannelType]string{
	TypeSensorNO:         "SENSORNO",
	TypeSensorNC:         "SENSORNC",
	TypeRelay:            "RELAY",
	TypeThermometer:      "THERMOMETER",
	TypeDimmer:           "DIMMER",
	TypeRGBLEDController: "RGBLEDCONTROLLER",
	TypeDimmerAndRGBLED:  "DIMMERANDRGBLED",
	TypeValveOpenClose:   "VALVEOPENCLOSE",
}

func (t ChannelType) String() string {
	if name, ok := channelTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ChannelType(%d)", int32(t))
}

func (t ChannelType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the names produced by MarshalJSON, including the
// ChannelType(n) form of unnamed types.
func (t *ChannelType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	name := strings.ToUpper(strings.TrimSpace(s))
	for k, n := range channelTypeNames {
		if n == name {
			*t = k
			return nil
		}
	}
	var n int32
	if _, err := fmt.Sscanf(s, "ChannelType(%d)", &n); err != nil {
		return fmt.Errorf("unknown channel type %q", s)
	}
	*t = ChannelType(n)
	return nil
}
