package models

// Channel is one controllable or observable endpoint of an IO device.
// The meaning of Param1..Param4 depends on Function only.
type Channel struct {
	ID            int             `json:"id"`
	UserID        int             `json:"user_id"`
	IODeviceID    int             `json:"iodevice_id"`
	ChannelNumber int             `json:"channel_number"`
	Caption       string          `json:"caption,omitempty"`
	Type          ChannelType     `json:"type"`
	Function      ChannelFunction `json:"function"`
	Param1        int32           `json:"param1"`
	Param2        int32           `json:"param2"`
	Param3        int32           `json:"param3"`
	Param4        int32           `json:"param4"`
}

// Params returns the four parameter slots in order.
func (c *Channel) Params() [4]int32 {
	return [4]int32{c.Param1, c.Param2, c.Param3, c.Param4}
}

// SetParams overwrites all four parameter slots.
func (c *Channel) SetParams(p [4]int32) {
	c.Param1, c.Param2, c.Param3, c.Param4 = p[0], p[1], p[2], p[3]
}
