package srv

type Srv struct {
	ai *AI
}

type ApplyFunc func(*Srv)

func SetupSrvs(opts ...ApplyFunc) *Srv {
	a := &Srv{}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

func WithAI(ai *AI) ApplyFunc {
	return func(s *Srv) {
		s.ai = ai
	}
}

func (s *Srv) AI() *AI {
	return s.ai
}
