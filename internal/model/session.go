package model

// Zaptec charge-history DTOs. Field names match the JSON emitted by
// api.zaptec.com/api/chargehistory with DetailLevel=1.

// EnergyDetail is one incremental energy delivery within a session.
// The timestamp is kept as the raw string reported by the API; the cost
// pipeline parses and normalizes it.
type EnergyDetail struct {
	Timestamp string  `json:"Timestamp"`
	Energy    float64 `json:"Energy"`
}

type ChargerFirmwareVersion struct {
	Major         int `json:"Major"`
	Minor         int `json:"Minor"`
	Build         int `json:"Build"`
	Revision      int `json:"Revision"`
	MajorRevision int `json:"MajorRevision"`
	MinorRevision int `json:"MinorRevision"`
}

type ChargingSession struct {
	ID                string                 `json:"Id"`
	DeviceID          string                 `json:"DeviceId"`
	StartDateTime     string                 `json:"StartDateTime"`
	EndDateTime       string                 `json:"EndDateTime"`
	Energy            float64                `json:"Energy"`
	CommitMetadata    int                    `json:"CommitMetadata"`
	CommitEndDateTime string                 `json:"CommitEndDateTime"`
	ChargerID         string                 `json:"ChargerId"`
	DeviceName        string                 `json:"DeviceName"`
	ExternallyEnded   bool                   `json:"ExternallyEnded"`
	EnergyDetails     []EnergyDetail         `json:"EnergyDetails"`
	FirmwareVersion   ChargerFirmwareVersion `json:"ChargerFirmwareVersion"`
	SignedSession     string                 `json:"SignedSession"`
}

type ChargingHistory struct {
	Pages int               `json:"Pages"`
	Data  []ChargingSession `json:"Data"`
}

// EnergySample is one energy delivery flattened out of its session: the
// pipeline's unit of work. Timestamp stays raw here; EnergyKWh is >= 0.
type EnergySample struct {
	SessionID string
	Timestamp string
	EnergyKWh float64
}

// Flatten expands sessions into the per-delivery samples the cost pipeline
// consumes, preserving API order.
func Flatten(sessions []ChargingSession) []EnergySample {
	var out []EnergySample
	for _, s := range sessions {
		for _, d := range s.EnergyDetails {
			out = append(out, EnergySample{
				SessionID: s.ID,
				Timestamp: d.Timestamp,
				EnergyKWh: d.Energy,
			})
		}
	}
	return out
}
