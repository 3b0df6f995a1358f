package midealan

// TestTransport is an in-memory transport for tests: it records every sent
// frame and answers roundtrips with canned response frames.
type TestTransport struct {
	Sent      [][]byte
	Responses [][]byte
	OpenErr   error
	SendErr   error

	opened bool
}

func NewTestTransport(responses ...[]byte) *TestTransport {
	return &TestTransport{Responses: responses}
}

func (t *TestTransport) Open() error {
	if t.OpenErr != nil {
		return t.OpenErr
	}
	t.opened = true
	return nil
}

func (t *TestTransport) Close() error {
	t.opened = false
	return nil
}

func (t *TestTransport) Opened() bool {
	return t.opened
}

func (t *TestTransport) Send(frame []byte) error {
	if t.SendErr != nil {
		return t.SendErr
	}
	t.Sent = append(t.Sent, frame)
	return nil
}

func (t *TestTransport) Roundtrip(frame []byte) ([][]byte, error) {
	if err := t.Send(frame); err != nil {
		return nil, err
	}
	return t.Responses, nil
}

// LastSent returns the most recent frame written to the transport, nil when
// nothing was sent.
func (t *TestTransport) LastSent() []byte {
	if len(t.Sent) == 0 {
		return nil
	}
	return t.Sent[len(t.Sent)-1]
}
