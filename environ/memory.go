package environ

// Memory is an isolated in-process environment. It never touches the host
// process environment, which keeps interpreter state hermetic in tests and
// sandboxed embeddings.
type Memory struct {
	vars map[string][]byte
}

// NewMemory creates an empty in-memory environment.
func NewMemory() *Memory {
	return &Memory{vars: map[string][]byte{}}
}

func (*Memory) Name() string {
	return "memory"
}

func (m *Memory) Get(name []byte) ([]byte, bool) {
	if validateName(name) != nil {
		return nil, false
	}
	value, ok := m.vars[string(name)]
	if !ok {
		return nil, false
	}
	dupe := make([]byte, len(value))
	copy(dupe, value)
	return dupe, true
}

func (m *Memory) Set(name []byte, value []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if value == nil {
		delete(m.vars, string(name))
		return nil
	}
	if err := validateValue(value); err != nil {
		return err
	}
	dupe := make([]byte, len(value))
	copy(dupe, value)
	m.vars[string(name)] = dupe
	return nil
}

func (m *Memory) ToMap() map[string][]byte {
	result := make(map[string][]byte, len(m.vars))
	for k, v := range m.vars {
		dupe := make([]byte, len(v))
		copy(dupe, v)
		result[k] = dupe
	}
	return result
}
