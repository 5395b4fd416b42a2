package domain

// Provenance maps a flag name to the ordered list of file paths in which
// it was found during one analysis run. It is rebuilt from scratch on each
// run and is append-only while a run is in progress.
type Provenance map[string][]string

// NewProvenance creates an empty provenance map.
func NewProvenance() Provenance {
	return make(Provenance)
}

// Record appends path to the flag's file list. The same path may appear
// once per flag even when the flag occurs several times in the file.
func (p Provenance) Record(flag, path string) {
	for _, existing := range p[flag] {
		if existing == path {
			return
		}
	}
	p[flag] = append(p[flag], path)
}

// Files returns the file paths recorded for the flag, in discovery order.
func (p Provenance) Files(flag string) []string {
	return p[flag]
}
