package srs

// Control messages exchanged over the TCP connection, newline-delimited
// JSON. Field names follow the SimpleRadio-Standalone server's casing,
// which mixes PascalCase envelopes with camelCase radio fields.

// MsgType discriminates control messages.
type MsgType int

const (
	MsgTypeUpdate MsgType = iota
	MsgTypePing
	MsgTypeSync
	MsgTypeRadioUpdate
	MsgTypeServerSettings
	MsgTypeClientDisconnect
	MsgTypeVersionMismatch
)

// protocolVersion is the SRS protocol version announced in every message.
const protocolVersion = "2.1.0.1"

// Modulation constants for Radio.Modulation.
const (
	ModulationAM byte = iota
	ModulationFM
)

type Message struct {
	Version string  `json:"Version"`
	MsgType MsgType `json:"MsgType"`
	Client  *Client `json:"Client,omitempty"`
}

type Client struct {
	GUID      string     `json:"ClientGuid"`
	Name      string     `json:"Name"`
	Coalition int        `json:"Coalition"`
	RadioInfo *RadioInfo `json:"RadioInfo,omitempty"`
	Position  *Position  `json:"LatLngPosition,omitempty"`
}

type RadioInfo struct {
	Name     string   `json:"name"`
	Position Position `json:"pos"`
	PTT      bool     `json:"ptt"`
	Radios   []Radio  `json:"radios"`
	Control  int      `json:"control"`
	Selected int      `json:"selected"`
	Unit     string   `json:"unit"`
	UnitID   uint32   `json:"unitId"`

	SimultaneousTransmission bool `json:"simultaneousTransmission"`
}

type Radio struct {
	Enc        bool    `json:"enc"`
	EncKey     byte    `json:"encKey"`
	EncMode    int     `json:"encMode"`
	FreqMax    float64 `json:"freqMax"`
	FreqMin    float64 `json:"freqMin"`
	Freq       float64 `json:"freq"`
	Modulation byte    `json:"modulation"`
	Name       string  `json:"name"`
	SecFreq    float64 `json:"secFreq"`
	Volume     float32 `json:"volume"`
	FreqMode   int     `json:"freqMode"`
	Expansion  bool    `json:"expansion"`
	Channel    int     `json:"channel"`
	Simul      bool    `json:"simul"`
}

type Position struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Altitude  float64 `json:"alt"`
}

// syncMessage builds the initial SYNC announcing one AM radio tuned to the
// given frequency.
func syncMessage(guid, name string, coalition int, frequency float64) Message {
	return Message{
		Version: protocolVersion,
		MsgType: MsgTypeSync,
		Client: &Client{
			GUID:      guid,
			Name:      name,
			Coalition: coalition,
			RadioInfo: &RadioInfo{
				Name: name,
				Radios: []Radio{{
					FreqMax:    400e6,
					FreqMin:    100e6,
					Freq:       frequency,
					Modulation: ModulationAM,
					Name:       name,
					Volume:     1,
				}},
				Unit:   awacsUnitName,
				UnitID: awacsUnitID,
			},
		},
	}
}
