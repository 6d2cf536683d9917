package types

// EntityID exposes the id field of list entities so that list operations can
// be written once for every section.

func (e *Experience) EntityID() *string      { return &e.ID }
func (e *Education) EntityID() *string       { return &e.ID }
func (p *Project) EntityID() *string         { return &p.ID }
func (s *Skill) EntityID() *string           { return &s.ID }
func (c *Certification) EntityID() *string   { return &c.ID }
func (l *Language) EntityID() *string        { return &l.ID }
func (a *Achievement) EntityID() *string     { return &a.ID }
func (x *ExtraCurricular) EntityID() *string { return &x.ID }
