package parser

// trySpeculative runs rule as a trial parse: the stream is marked, error
// emission is silenced, and regardless of the outcome the stream is rewound
// to the mark. The trial succeeds when no mismatch occurred. Trials may nest;
// the speculation counter keeps inner failures from leaking into the outer
// trial's verdict.
func (p *Parser) trySpeculative(rule func()) bool {
	mark := p.stream.Mark()
	visible := p.stream.HiddenVisible()
	savedFailed := p.failed

	p.speculating++
	p.failed = false
	rule()
	ok := !p.failed
	p.speculating--

	p.failed = savedFailed
	p.stream.Rewind(mark)
	p.stream.SetHiddenVisible(visible)
	return ok
}
