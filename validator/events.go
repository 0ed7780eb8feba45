package validator

// Event identifiers the validator program passes to FLUSH. Values match
// the host flight-software event ID assignments so a ground station
// decoding raw event numbers needs no translation table of its own.
const (
	EventValidationInfo uint32 = 0x0008

	EventZero  uint32 = 0x2001
	EventParm  uint32 = 0x2002
	EventPad   uint32 = 0x2004
	EventLBnd  uint32 = 0x2008
	EventHBnd  uint32 = 0x2010
	EventOrder uint32 = 0x2020
	EventExtra uint32 = 0x2040
	EventRedef uint32 = 0x2080
)

// Severity levels, matching the host event service's two relevant event
// types. The VM treats these as opaque Nums; only the sink gives them
// meaning.
const (
	SeverityInformation uint32 = 1
	SeverityError       uint32 = 2
)

// Parameter identifier bitmasks, one bit per recognized value. UNUSED is
// the all-zero identifier; the rest are single-bit animal and direction
// masks, chosen so a future "which parameters are in use" summary could
// OR them together even though the validator program itself only ever
// compares one at a time.
const (
	ParmUnused uint32 = 0x00
	ParmApe    uint32 = 0x01
	ParmBat    uint32 = 0x02
	ParmCat    uint32 = 0x04
	ParmDog    uint32 = 0x08
	ParmNorth  uint32 = 0x10
	ParmSouth  uint32 = 0x20
	ParmEast   uint32 = 0x40
	ParmWest   uint32 = 0x80
)

// Bound ranges, keyed by entry class.
const (
	AnimalBoundMin    uint32 = 0x00000010
	AnimalBoundMax    uint32 = 0x00001000
	DirectionBoundMin uint32 = 0x00010000
	DirectionBoundMax uint32 = 0x01000000
)

// EntryCount is the fixed number of parameter entries in the table this
// program validates.
const EntryCount = 4

// EntrySize is the byte width of one table entry: a 1-byte parameter
// identifier, 3 bytes of padding, and two 4-byte bounds.
const EntrySize = 1 + 3 + 4 + 4

// ImageSize is the total byte width of the table image the validator
// program expects: EntryCount entries of EntrySize bytes each.
const ImageSize = EntryCount * EntrySize
