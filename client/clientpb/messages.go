package clientpb

// GetSupportedRPCVersionsRequest carries no fields; it exists so the
// engine has a Message to marshal for OpGetSupportedRPCVersions.
type GetSupportedRPCVersionsRequest struct{}

func (r *GetSupportedRPCVersionsRequest) Marshal() ([]byte, error) { return nil, nil }
func (r *GetSupportedRPCVersionsRequest) Unmarshal(b []byte) error { return nil }

// GetSupportedRPCVersionsResponse reports the inclusive range of wire
// versions the server accepts.
type GetSupportedRPCVersionsResponse struct {
	MinVersion uint16
	MaxVersion uint16
}

func (r *GetSupportedRPCVersionsResponse) Marshal() ([]byte, error) {
	w := &writer{}
	w.putUint16(r.MinVersion)
	w.putUint16(r.MaxVersion)
	return w.buf, nil
}

func (r *GetSupportedRPCVersionsResponse) Unmarshal(b []byte) error {
	rd := &reader{buf: b}
	var err error
	if r.MinVersion, err = rd.uint16(); err != nil {
		return err
	}
	if r.MaxVersion, err = rd.uint16(); err != nil {
		return err
	}
	return nil
}

// OpenSessionRequest carries no fields.
type OpenSessionRequest struct{}

func (r *OpenSessionRequest) Marshal() ([]byte, error) { return nil, nil }
func (r *OpenSessionRequest) Unmarshal(b []byte) error { return nil }

// OpenSessionResponse assigns the caller a client ID for use in
// ExactlyOnceRPCInfo on later mutating RPCs.
type OpenSessionResponse struct {
	ClientID uint64
}

func (r *OpenSessionResponse) Marshal() ([]byte, error) {
	w := &writer{}
	w.putUint64(r.ClientID)
	return w.buf, nil
}

func (r *OpenSessionResponse) Unmarshal(b []byte) error {
	rd := &reader{buf: b}
	var err error
	r.ClientID, err = rd.uint64()
	return err
}

// ServerInfo names one member of a cluster configuration.
type ServerInfo struct {
	ServerID uint64
	Address  string
}

func (s *ServerInfo) marshalInto(w *writer) {
	w.putUint64(s.ServerID)
	w.putString(s.Address)
}

func (s *ServerInfo) unmarshalFrom(r *reader) error {
	var err error
	if s.ServerID, err = r.uint64(); err != nil {
		return err
	}
	s.Address, err = r.string()
	return err
}

func marshalServerInfos(w *writer, servers []ServerInfo) {
	w.putUint32(uint32(len(servers)))
	for i := range servers {
		servers[i].marshalInto(w)
	}
}

func unmarshalServerInfos(r *reader) ([]ServerInfo, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	out := make([]ServerInfo, n)
	for i := range out {
		if err := out[i].unmarshalFrom(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Configuration is a cluster's stable member list, identified by an
// opaque, monotonically assigned ID used to detect concurrent changes.
type Configuration struct {
	ID      uint64
	Servers []ServerInfo
}

func (c *Configuration) marshalInto(w *writer) {
	w.putUint64(c.ID)
	marshalServerInfos(w, c.Servers)
}

func (c *Configuration) unmarshalFrom(r *reader) error {
	var err error
	if c.ID, err = r.uint64(); err != nil {
		return err
	}
	c.Servers, err = unmarshalServerInfos(r)
	return err
}

// GetConfigurationRequest carries no fields.
type GetConfigurationRequest struct{}

func (r *GetConfigurationRequest) Marshal() ([]byte, error) { return nil, nil }
func (r *GetConfigurationRequest) Unmarshal(b []byte) error { return nil }

// GetConfigurationResponse returns the cluster's current configuration.
type GetConfigurationResponse struct {
	Configuration Configuration
}

func (r *GetConfigurationResponse) Marshal() ([]byte, error) {
	w := &writer{}
	r.Configuration.marshalInto(w)
	return w.buf, nil
}

func (r *GetConfigurationResponse) Unmarshal(b []byte) error {
	rd := &reader{buf: b}
	return r.Configuration.unmarshalFrom(rd)
}

// SetConfigurationResult classifies the outcome of a SetConfiguration
// attempt.
type SetConfigurationResult uint8

const (
	SetConfigOK      SetConfigurationResult = 0
	SetConfigChanged SetConfigurationResult = 1
	SetConfigBad     SetConfigurationResult = 2
)

func (r SetConfigurationResult) String() string {
	switch r {
	case SetConfigOK:
		return "OK"
	case SetConfigChanged:
		return "CONFIGURATION_CHANGED"
	case SetConfigBad:
		return "CONFIGURATION_BAD"
	default:
		return "UNKNOWN"
	}
}

// SetConfigurationRequest proposes a new server list, contingent on
// the cluster's configuration still being at OldID.
type SetConfigurationRequest struct {
	OldID      uint64
	NewServers []ServerInfo
}

func (r *SetConfigurationRequest) Marshal() ([]byte, error) {
	w := &writer{}
	w.putUint64(r.OldID)
	marshalServerInfos(w, r.NewServers)
	return w.buf, nil
}

func (r *SetConfigurationRequest) Unmarshal(b []byte) error {
	rd := &reader{buf: b}
	var err error
	if r.OldID, err = rd.uint64(); err != nil {
		return err
	}
	r.NewServers, err = unmarshalServerInfos(rd)
	return err
}

// SetConfigurationResponse reports whether the proposed configuration
// was accepted; BadServers is populated only when Result is SetConfigBad.
type SetConfigurationResponse struct {
	Result     SetConfigurationResult
	BadServers []ServerInfo
}

func (r *SetConfigurationResponse) Marshal() ([]byte, error) {
	w := &writer{}
	w.putUint8(uint8(r.Result))
	marshalServerInfos(w, r.BadServers)
	return w.buf, nil
}

func (r *SetConfigurationResponse) Unmarshal(b []byte) error {
	rd := &reader{buf: b}
	res, err := rd.uint8()
	if err != nil {
		return err
	}
	r.Result = SetConfigurationResult(res)
	r.BadServers, err = unmarshalServerInfos(rd)
	return err
}

// ExactlyOnceRPCInfo is attached to mutating tree RPCs so the server
// can deduplicate retried requests. RPCNumber is strictly increasing
// per client; FirstOutstandingRPC lets the server discard response
// caches for lower numbers.
type ExactlyOnceRPCInfo struct {
	ClientID            uint64
	FirstOutstandingRPC uint64
	RPCNumber           uint64
}

func (e *ExactlyOnceRPCInfo) marshalInto(w *writer) {
	w.putUint64(e.ClientID)
	w.putUint64(e.FirstOutstandingRPC)
	w.putUint64(e.RPCNumber)
}

func (e *ExactlyOnceRPCInfo) unmarshalFrom(r *reader) error {
	var err error
	if e.ClientID, err = r.uint64(); err != nil {
		return err
	}
	if e.FirstOutstandingRPC, err = r.uint64(); err != nil {
		return err
	}
	e.RPCNumber, err = r.uint64()
	return err
}

// ReadOnlyTreeRequest reads Path from the tree state machine without
// exactly-once bookkeeping, since it has no side effects to dedup.
type ReadOnlyTreeRequest struct {
	Path string
}

func (r *ReadOnlyTreeRequest) Marshal() ([]byte, error) {
	w := &writer{}
	w.putString(r.Path)
	return w.buf, nil
}

func (r *ReadOnlyTreeRequest) Unmarshal(b []byte) error {
	rd := &reader{buf: b}
	var err error
	r.Path, err = rd.string()
	return err
}

// ReadOnlyTreeResponse carries the raw bytes stored at Path. The tree
// state machine that gives those bytes meaning is out of scope here.
type ReadOnlyTreeResponse struct {
	Payload []byte
}

func (r *ReadOnlyTreeResponse) Marshal() ([]byte, error) {
	w := &writer{}
	w.putBytes(r.Payload)
	return w.buf, nil
}

func (r *ReadOnlyTreeResponse) Unmarshal(b []byte) error {
	rd := &reader{buf: b}
	var err error
	r.Payload, err = rd.bytes()
	return err
}

// ReadWriteTreeRequest mutates Path and carries ExactlyOnce metadata
// so a retried request is not applied twice.
type ReadWriteTreeRequest struct {
	ExactlyOnce ExactlyOnceRPCInfo
	Path        string
	Payload     []byte
}

func (r *ReadWriteTreeRequest) Marshal() ([]byte, error) {
	w := &writer{}
	r.ExactlyOnce.marshalInto(w)
	w.putString(r.Path)
	w.putBytes(r.Payload)
	return w.buf, nil
}

func (r *ReadWriteTreeRequest) Unmarshal(b []byte) error {
	rd := &reader{buf: b}
	if err := r.ExactlyOnce.unmarshalFrom(rd); err != nil {
		return err
	}
	var err error
	if r.Path, err = rd.string(); err != nil {
		return err
	}
	r.Payload, err = rd.bytes()
	return err
}

// ReadWriteTreeResponse carries whatever the mutation left behind
// (e.g. the previous value), opaque to this layer.
type ReadWriteTreeResponse struct {
	Payload []byte
}

func (r *ReadWriteTreeResponse) Marshal() ([]byte, error) {
	w := &writer{}
	w.putBytes(r.Payload)
	return w.buf, nil
}

func (r *ReadWriteTreeResponse) Unmarshal(b []byte) error {
	rd := &reader{buf: b}
	var err error
	r.Payload, err = rd.bytes()
	return err
}

// EncodeNotLeaderHint renders a NOT_LEADER hint as the null-terminated
// UTF-8 string the wire format specifies; an empty hint encodes as an
// empty body, not a lone NUL.
func EncodeNotLeaderHint(hint string) []byte {
	if hint == "" {
		return nil
	}
	b := make([]byte, len(hint)+1)
	copy(b, hint)
	return b
}

// DecodeNotLeaderHint reverses EncodeNotLeaderHint. An empty body
// decodes to an empty hint.
func DecodeNotLeaderHint(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return string(b)
}
