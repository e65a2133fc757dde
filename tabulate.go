package uslfit

import (
	"fmt"
	"strconv"
	"strings"
)

// Packet is one captured packet summary, as printed by `tcpdump -nnq`:
//
//	09:34:44.832507 IP 10.0.0.1.42512 > 10.0.0.2.3306: tcp 92
//
// Length is the payload length; zero-length packets (pure acknowledgments)
// carry no request or reply and are ignored by the tabulator.
type Packet struct {
	Date    string  // Capture date, if known (may be empty)
	Clock   string  // Wall-clock time as printed in the trace
	Time    float64 // Seconds since midnight, with fractional part
	SrcPort int
	DstPort int
	Client  string // The non-watched endpoint (address.port)
	Length  int
}

// ParsePacketLine parses one tcpdump-style summary line. The watched port
// determines which endpoint is the client.
func ParsePacketLine(line string, watchPort int) (Packet, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return Packet{}, fmt.Errorf("%w: packet line needs at least 5 fields: %q", ErrBadInput, line)
	}

	ts, err := parseClock(fields[0])
	if err != nil {
		return Packet{}, err
	}

	// Layout: time IP src > dst: proto length
	src := fields[2]
	dst := strings.TrimSuffix(fields[4], ":")
	if fields[3] != ">" {
		return Packet{}, fmt.Errorf("%w: packet line missing direction marker: %q", ErrBadInput, line)
	}

	srcPort, err := endpointPort(src)
	if err != nil {
		return Packet{}, err
	}
	dstPort, err := endpointPort(dst)
	if err != nil {
		return Packet{}, err
	}

	length := 0
	if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
		length = n
	}

	p := Packet{
		Clock:   fields[0],
		Time:    ts,
		SrcPort: srcPort,
		DstPort: dstPort,
		Length:  length,
	}
	switch watchPort {
	case dstPort:
		p.Client = src
	case srcPort:
		p.Client = dst
	}
	return p, nil
}

// parseClock converts HH:MM:SS.ffffff to seconds since midnight.
func parseClock(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: bad timestamp %q", ErrBadInput, s)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("%w: bad timestamp %q", ErrBadInput, s)
	}
	return float64(h*3600+m*60) + sec, nil
}

// endpointPort extracts the port from a dotted address.port endpoint.
func endpointPort(ep string) (int, error) {
	i := strings.LastIndexAny(ep, ".:")
	if i < 0 || i == len(ep)-1 {
		return 0, fmt.Errorf("%w: endpoint %q has no port", ErrBadInput, ep)
	}
	port, err := strconv.Atoi(ep[i+1:])
	if err != nil {
		return 0, fmt.Errorf("%w: endpoint %q has no numeric port", ErrBadInput, ep)
	}
	return port, nil
}

// Record is one tabulated request completion: the intermediate 8-column
// format consumed by the window aggregator.
type Record struct {
	Date         string
	Clock        string
	Time         float64 // Numeric timestamp (seconds since midnight)
	Client       string
	ResponseTime float64
	Pending      int     // In-flight requests after this completion
	BusyTime     float64 // Cumulative time with at least one request pending
	WeightedTime float64 // Cumulative ∫pending·dt
}

// String renders the record in the 8-column intermediate trace format.
func (r Record) String() string {
	return fmt.Sprintf("%s %s %.6f %s %.6f %d %.6f %.6f",
		r.Date, r.Clock, r.Time, r.Client, r.ResponseTime, r.Pending, r.BusyTime, r.WeightedTime)
}

// ParseRecord parses one line of the 8-column intermediate trace format.
func ParseRecord(line string) (Record, error) {
	f := strings.Fields(line)
	if len(f) != 8 {
		return Record{}, fmt.Errorf("%w: tabulated record needs 8 columns, got %d", ErrBadInput, len(f))
	}
	ts, err1 := strconv.ParseFloat(f[2], 64)
	rt, err2 := strconv.ParseFloat(f[4], 64)
	pending, err3 := strconv.Atoi(f[5])
	busy, err4 := strconv.ParseFloat(f[6], 64)
	weighted, err5 := strconv.ParseFloat(f[7], 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return Record{}, fmt.Errorf("%w: bad tabulated record %q", ErrBadInput, line)
	}
	return Record{
		Date: f[0], Clock: f[1], Time: ts, Client: f[3],
		ResponseTime: rt, Pending: pending, BusyTime: busy, WeightedTime: weighted,
	}, nil
}

// Tabulator converts a packet trace for one watched service port into a
// stream of completion records. It tracks at most one open request per
// client: a second request from a client whose reply has not arrived is
// treated as a retransmit and ignored, as is a reply with no matching
// request.
//
// State is local to one tabulation pass. Timestamps must be non-decreasing;
// traces spanning midnight are rejected rather than producing negative
// elapsed times.
type Tabulator struct {
	watchPort int

	open     map[string]float64 // client → request start timestamp
	pending  int
	lastTime float64
	busy     float64
	weighted float64
	started  bool
}

// NewTabulator creates a tabulator watching one service port.
func NewTabulator(watchPort int) *Tabulator {
	return &Tabulator{
		watchPort: watchPort,
		open:      make(map[string]float64),
	}
}

// Pending reports the number of currently open requests across all clients.
func (t *Tabulator) Pending() int { return t.pending }

// Observe feeds one packet. When the packet completes a request it returns
// the tabulated record and true; otherwise the zero record and false.
func (t *Tabulator) Observe(p Packet) (Record, bool, error) {
	if p.Length == 0 {
		return Record{}, false, nil
	}

	switch t.watchPort {
	case p.DstPort:
		return Record{}, false, t.request(p)
	case p.SrcPort:
		return t.reply(p)
	}
	return Record{}, false, nil
}

func (t *Tabulator) request(p Packet) error {
	if _, dup := t.open[p.Client]; dup {
		// Retransmit of an unanswered request.
		return nil
	}
	if err := t.advance(p.Time); err != nil {
		return err
	}
	t.open[p.Client] = p.Time
	t.pending++
	return nil
}

func (t *Tabulator) reply(p Packet) (Record, bool, error) {
	start, ok := t.open[p.Client]
	if !ok {
		// Orphan reply: request predates the capture.
		return Record{}, false, nil
	}
	if err := t.advance(p.Time); err != nil {
		return Record{}, false, err
	}
	t.pending--
	delete(t.open, p.Client)

	return Record{
		Date:         p.Date,
		Clock:        p.Clock,
		Time:         p.Time,
		Client:       p.Client,
		ResponseTime: p.Time - start,
		Pending:      t.pending,
		BusyTime:     t.busy,
		WeightedTime: t.weighted,
	}, true, nil
}

// advance accounts the interval since the previous accepted event against the
// busy and weighted-busy accumulators, then moves the clock forward.
func (t *Tabulator) advance(now float64) error {
	if !t.started {
		t.started = true
		t.lastTime = now
		return nil
	}
	elapsed := now - t.lastTime
	if elapsed < 0 {
		return fmt.Errorf("%w: timestamp went backwards at %.6f (traces spanning midnight are unsupported)",
			ErrBadInput, now)
	}
	t.weighted += float64(t.pending) * elapsed
	if t.pending > 0 {
		t.busy += elapsed
	}
	t.lastTime = now
	return nil
}

// Tabulate runs a complete trace through a fresh tabulator and returns the
// completion records.
func Tabulate(packets []Packet, watchPort int) ([]Record, error) {
	tab := NewTabulator(watchPort)
	var records []Record
	for _, p := range packets {
		rec, ok, err := tab.Observe(p)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, rec)
		}
	}
	return records, nil
}
