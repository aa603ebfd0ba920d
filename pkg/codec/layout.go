package codec

const (
	canonicalHeaderSize = 12
	paddingTailSize     = 32
)

// layout is a static description of one known header shape. The producer
// never published the format, and reverse-engineered samples disagree on
// header size, so decoding is a trial over these candidates. New shapes are
// supported by appending a candidate together with a sample fixture, never
// by editing the existing ones.
type layout struct {
	name       string
	headerSize int
	// hasUnknown marks the extra uint32 at offset 12 whose meaning was
	// never identified.
	hasUnknown bool
	// upfrontLengths marks the 28-byte shape: all three string lengths sit
	// in the header and the string data follows contiguously, instead of
	// interleaved length+data sections.
	upfrontLengths bool
}

// layoutCandidates in decode priority order. The canonical 12-byte shape is
// tried first since it is the only one ever written back; the 16- and
// 28-byte shapes are legacy, decode-only.
var layoutCandidates = [...]layout{
	{name: "canonical-12", headerSize: 12},
	{name: "legacy-16", headerSize: 16, hasUnknown: true},
	{name: "legacy-28", headerSize: 28, hasUnknown: true, upfrontLengths: true},
}
