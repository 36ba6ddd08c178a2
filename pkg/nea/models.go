package nea

import "encoding/json"

// KeyCapabilityInfo lists which key types are set up on a provisioned band.
type KeyCapabilityInfo struct {
	CDF              bool `json:"cdf"`
	RoamingAuthSetup bool `json:"roamingAuthSetup"`
	Signing          bool `json:"signing"`
	SymmetricKeys    bool `json:"symmetricKeys"`
	TOTP             bool `json:"totp"`
}

// ProvisionInfo describes the enrollment of a band with this NEA.
type ProvisionInfo struct {
	PID                           string            `json:"pid"`
	AuthenticationWindowRemaining float64           `json:"authenticationWindowRemaining"`
	CommandQueue                  []string          `json:"commandQueue"`
	CommandsQueued                int               `json:"commandsQueued"`
	HasApproached                 bool              `json:"hasApproached"`
	Proximity                     ProximityState    `json:"proximity"`
	Capabilities                  KeyCapabilityInfo `json:"capabilities"`
}

// BandInfo is the daemon's view of one band. Provision is set only for
// provisioned bands.
type BandInfo struct {
	RSSILast         float64        `json:"rssiLast"`
	RSSISmoothed     float64        `json:"rssiSmoothed"`
	FirmwareVersion  string         `json:"firmwareVersion"`
	Found            FoundState     `json:"found"`
	Provisioned      bool           `json:"provisioned"`
	Present          PresenceState  `json:"present"`
	SinceLastContact float64        `json:"sinceLastContact"`
	TID              int            `json:"tid"`
	Provision        *ProvisionInfo `json:"provision,omitempty"`
}

// DaemonConfigInfo is the running configuration of the device service.
type DaemonConfigInfo struct {
	Commit      string `json:"commit"`
	Detecting   bool   `json:"detecting"`
	Discovering bool   `json:"discovering"`
	EcoDaemon   string `json:"ecodaemon"`
	Finding     bool   `json:"finding"`
	Net         bool   `json:"net"`
	Running     bool   `json:"running"`
	Version     string `json:"version"`
}

// NotificationFlags are the notification subscriptions of this NEA.
type NotificationFlags struct {
	OnFirmwareVersion bool `json:"onFirmwareVersion"`
	OnFoundChange     bool `json:"onFoundChange"`
	OnGeneralError    bool `json:"onGeneralError"`
	OnPresenceChange  bool `json:"onPresenceChange"`
	OnProvision       bool `json:"onProvision"`
}

// InitInfo is the outcome of NEA initialization.
type InitInfo struct {
	Name               string             `json:"name"`
	Initialized        bool               `json:"initialized"`
	Host               string             `json:"host"`
	Port               int                `json:"port"`
	SignatureAlgorithm SignatureAlgorithm `json:"signatureAlgorithm"`
}

// newKeyCapabilityInfo reads the capability flags, accepting both the
// enabledX names and their short legacy aliases.
func newKeyCapabilityInfo(r *reader) KeyCapabilityInfo {
	return KeyCapabilityInfo{
		CDF:              r.flag(keysCapCDF),
		RoamingAuthSetup: r.flag(keysCapRoamingAuthSetup),
		Signing:          r.flag(keysCapSigning),
		SymmetricKeys:    r.flag(keysCapSymmetricKeys),
		TOTP:             r.flag(keysCapTOTP),
	}
}

// newProvisionInfo reads provisioning data either flat on the band object or
// nested under its provisioned member.
func newProvisionInfo(r *reader) *ProvisionInfo {
	caps := r
	if nested, ok := r.nested("provisioned"); ok {
		caps = nested
	}

	proximity := ProximityState(r.str(keys("proximity")))
	if proximity == "" {
		proximity = ProximityNotReady
	}

	return &ProvisionInfo{
		PID:                           r.requireString(keysPID),
		AuthenticationWindowRemaining: r.number(keysAuthWindowRemaining),
		CommandQueue:                  r.strs(keys("commandQueue")),
		CommandsQueued:                r.integer(keysCommandsQueued),
		HasApproached:                 r.flag(keys("hasApproached")),
		Proximity:                     proximity,
		Capabilities:                  newKeyCapabilityInfo(caps),
	}
}

func newBandInfo(r *reader, provision *ProvisionInfo) BandInfo {
	return BandInfo{
		RSSILast:         r.number(keys("RSSI_last")),
		RSSISmoothed:     r.number(keys("RSSI_smoothed")),
		FirmwareVersion:  r.str(keys("firmwareVersion")),
		Found:            FoundState(r.str(keys("found"))),
		Provisioned:      r.flag(keysProvisioned),
		Present:          PresenceState(r.str(keys("present"))),
		SinceLastContact: r.number(keys("sinceLastContact")),
		TID:              r.requireInt(keys("tid")),
		Provision:        provision,
	}
}

func newDaemonConfigInfo(r *reader) DaemonConfigInfo {
	return DaemonConfigInfo{
		Commit:      r.str(keys("commit")),
		Detecting:   r.flag(keys("detecting")),
		Discovering: r.flag(keys("discovering")),
		EcoDaemon:   r.str(keys("ecodaemon")),
		Finding:     r.flag(keys("finding")),
		Net:         r.flag(keys("net")),
		Running:     r.flag(keys("running")),
		Version:     r.str(keys("version")),
	}
}

func newNotificationFlags(r *reader) NotificationFlags {
	return NotificationFlags{
		OnFirmwareVersion: r.flag(keys("onFirmwareVersion")),
		OnFoundChange:     r.flag(keys("onFoundChange")),
		OnGeneralError:    r.flag(keys("onGeneralError")),
		OnPresenceChange:  r.flag(keys("onPresenceChange")),
		OnProvision:       r.flag(keys("onProvision")),
	}
}

func newInitInfo(r *reader) InitInfo {
	network := r.requireNested("network")
	return InitInfo{
		Name:               r.requireString(keys("NEAName")),
		Initialized:        r.flag(keys("inited")),
		Host:               network.requireString(keys("host")),
		Port:               network.requireInt(keys("port")),
		SignatureAlgorithm: SignatureAlgorithm(r.str(keys("signatureAlgorithm"))),
	}
}

// provisionMap keeps the daemon's pid map opaque; its shape is not stable.
func provisionMap(r *reader) json.RawMessage {
	return r.raw(keys("provisionMap"))
}
