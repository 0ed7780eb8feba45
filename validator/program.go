package validator

import "grunt/grunt"

// Program assembles the table-validation Grunt program: the hand-authored
// bytecode that walks the four table entries, classifies each by
// parameter identifier, checks its padding and bounds, tracks cross-entry
// EXTRA/REDEF violations, and emits one informational summary line.
//
// The subroutine layout mirrors the reference validator function
// one-for-one: a MAIN entry point that unrolls the four-entry loop (Grunt
// has no backward jumps to loop with), a validateEntry dispatcher, and a
// tree of small per-check subroutines below it.
func Program() ([]grunt.Instruction, error) {
	b := grunt.NewBuilder()

	buildMain(b)
	buildValidateEntry(b)
	buildClassifiers(b)
	buildValidateUnused(b)
	buildValidateInUse(b)
	buildValidatePad(b)
	buildValidateBounds(b)
	buildValidateRange(b)
	buildValidateOrder(b)
	buildValidateExtra(b)
	buildValidateRedef(b)
	buildHandleParmErr(b)
	buildCounters(b)
	buildEmitters(b)
	buildParmToStr(b)

	return b.Build()
}

// buildMain assembles the entry point. It calls validateEntry once per
// table entry, unrolled because Grunt has no loop construct, threading
// the running unused/valid counts and up to three previously-seen
// parameter identifiers (for the REDEF check) through each call.
func buildMain(b *grunt.Builder) {
	b.Label("main")

	b.PushN(0)           // -- unused
	b.PushN(0)           // -- u v
	b.PushN(ParmUnused)  // -- u v s1
	b.PushN(ParmUnused)  // -- u v s1 s2
	b.PushN(ParmUnused)  // -- u v s1 s2 s3
	b.PushN(1)           // -- u v s1 s2 s3 entry
	b.Call("validateEntry") // -- u v s1

	b.Dup(1)  // -- u v s1 s1
	b.Roll(4) // -- s1 u v s1
	b.Dup(1)  // -- s1 u v s1 s1
	b.Roll(4) // -- s1 s1 u v s1

	b.PushN(ParmUnused)     // -- s1 s1 u v s1 s2
	b.PushN(ParmUnused)     // -- s1 s1 u v s1 s2 s3
	b.PushN(2)              // -- s1 s1 u v s1 s2 s3 entry
	b.Call("validateEntry") // -- s1 s1 u v s2

	b.Dup(1)  // -- s1 s1 u v s2 s2
	b.Roll(5) // -- s1 s2 s1 u v s2

	b.Roll(3) // -- s1 s2 s1 s2 u v
	b.Roll(4) // -- s1 s2 v s1 s2 u
	b.Roll(4) // -- s1 s2 u v s1 s2

	b.PushN(ParmUnused)     // -- s1 s2 u v s1 s2 s3
	b.PushN(3)              // -- s1 s2 u v s1 s2 s3 entry
	b.Call("validateEntry") // -- s1 s2 u v s3

	b.Roll(3) // -- s1 s2 s3 u v
	b.Roll(5) // -- v s1 s2 s3 u
	b.Roll(5) // -- u v s1 s2 s3

	b.PushN(4)              // -- u v s1 s2 s3 entry
	b.Call("validateEntry") // -- u v s4

	b.Pop(1)                 // -- u v
	b.Call("computeInvalid") // -- u i v
	b.Call("computeResult")  // -- valid? u i v

	b.Call("emitInfo") // -- valid?

	b.Halt()
}

// buildValidateEntry assembles the per-entry dispatcher: read the
// parameter identifier, classify it as unused / animal / direction /
// invalid, and hand off to the matching subroutine.
func buildValidateEntry(b *grunt.Builder) {
	b.Label("validateEntry")
	// in:  u v s1 s2 s3 entry
	// out: new-u new-v parmid

	b.Input(1) // -- u v s1 s2 s3 e parmid
	b.Dup(1)   // -- u v s1 s2 s3 e p p
	b.Roll(6)  // -- u v p s1 s2 s3 e p

	b.Dup(1)
	b.Call("isUnused")
	b.Not()
	b.JmpIf("entryNotUnused")

	b.Roll(5) // -- u v p p s1 s2 s3 e
	b.Roll(5) // -- u v p e p s1 s2 s3
	b.Pop(3)  // -- u v p e p
	b.Call("validateUnused")
	b.JmpIf("unusedWasValid")
	b.Return()
	b.Label("unusedWasValid")
	b.Call("incUnused") // -- new-u v p
	b.Return()

	b.Label("entryNotUnused")
	b.Roll(8)
	b.Roll(8)
	b.Roll(8)
	b.Roll(8)
	b.Roll(8)
	b.Roll(8)
	b.Roll(8)
	b.Dup(1)
	b.Roll(9)
	b.Roll(3)
	// -- u v p s1 s2 s3 unused e p

	b.Dup(1)
	b.Call("isAnimal")
	b.Not()
	b.JmpIf("entryNotAnimal")

	b.PushN(AnimalBoundMax)
	b.PushN(AnimalBoundMin)
	b.Call("validateInUse")
	b.JmpIf("animalWasValid")
	b.Return()
	b.Label("animalWasValid")
	b.Call("incValid")
	b.Return()

	b.Label("entryNotAnimal")
	b.Dup(1)
	b.Call("isDirection")
	b.Not()
	b.JmpIf("entryNotDirection")

	b.PushN(DirectionBoundMax)
	b.PushN(DirectionBoundMin)
	b.Call("validateInUse")
	b.JmpIf("directionWasValid")
	b.Return()
	b.Label("directionWasValid")
	b.Call("incValid")
	b.Return()

	b.Label("entryNotDirection")
	// bad parameter identifier: no pad/bounds checks, just report it
	b.Pop(1)  // -- u v p s1 s2 s3 unused e
	b.Roll(5) // -- u v p e s1 s2 s3 unused
	b.Pop(4)  // -- u v p e
	b.Call("handleParmErr")
	b.Return()
}

// buildClassifiers assembles isUnused, isAnimal and isDirection: the
// predicates validateEntry dispatches on.
func buildClassifiers(b *grunt.Builder) {
	b.Label("isUnused")
	// parmid -- unused?
	b.PushN(ParmUnused)
	b.Eq(2)
	b.Return()

	b.Label("isAnimal")
	// parmid -- animal?
	b.Dup(1)
	b.PushN(ParmApe)
	b.Eq(2)
	b.Roll(2)
	b.Dup(1)
	b.PushN(ParmBat)
	b.Eq(2)
	b.Roll(2)
	b.Dup(1)
	b.PushN(ParmCat)
	b.Eq(2)
	b.Roll(2)
	b.PushN(ParmDog)
	b.Eq(2)
	b.Or(4)
	b.Return()

	b.Label("isDirection")
	// parmid -- direction?
	b.Dup(1)
	b.PushN(ParmNorth)
	b.Eq(2)
	b.Roll(2)
	b.Dup(1)
	b.PushN(ParmSouth)
	b.Eq(2)
	b.Roll(2)
	b.Dup(1)
	b.PushN(ParmEast)
	b.Eq(2)
	b.Roll(2)
	b.PushN(ParmWest)
	b.Eq(2)
	b.Or(4)
	b.Return()
}

// buildValidateUnused checks that an UNUSED entry's padding and both
// bounds are entirely zero.
func buildValidateUnused(b *grunt.Builder) {
	b.Label("validateUnused")
	// entry parmid -- valid?
	b.Input(1) // -- e p pad0
	b.Input(2) // -- e p pad0 pad12
	b.Input(4) // -- e p pad0 pad12 lbnd
	b.Input(4) // -- e p pad0 pad12 lbnd hbnd
	b.PushN(0)
	b.Eq(5) // -- e p zeroed?
	b.JmpIf("unusedWasZeroed")

	b.Roll(2) // -- p e
	b.PushN(EventZero)
	b.Roll(3) // -- eid p e
	b.PushS(strNotZeroed)
	b.Roll(3) // -- eid msg p e
	b.Call("emitError")
	b.PushB(false)
	b.Return()

	b.Label("unusedWasZeroed")
	b.Pop(2)
	b.PushB(true)
	b.Return()
}

// buildValidateInUse runs the full check suite for an animal or
// direction entry: padding, bound range and order, the cross-entry EXTRA
// (follows an unused entry) and REDEF (duplicate identifier) checks.
func buildValidateInUse(b *grunt.Builder) {
	b.Label("validateInUse")
	// s1 s2 s3 u e p max min -- valid?

	b.Roll(8) // -- min s1 s2 s3 u e p max
	b.Roll(8) // -- max min s1 s2 s3 u e p
	b.Dup(2)  // -- max min s1 s2 s3 u e p e p
	b.Call("validatePad")
	b.Roll(9) // -- pad? max min s1 s2 s3 u e p

	b.Dup(2)   // -- pad? max min s1 s2 s3 u e p e p
	b.Roll(10) // -- pad? p max min s1 s2 s3 u e p e
	b.Roll(10) // -- pad? e p max min s1 s2 s3 u e p
	b.Roll(10) // -- pad? p e p max min s1 s2 s3 u e
	b.Roll(10) // -- pad? e p e p max min s1 s2 s3 u
	b.Roll(10) // -- pad? u e p e p max min s1 s2 s3
	b.Roll(10) // -- pad? s3 u e p e p max min s1 s2
	b.Roll(10) // -- pad? s2 s3 u e p e p max min s1
	b.Roll(10) // -- pad? s1 s2 s3 u e p e p max min

	b.Call("validateBounds") // -- pad? s1 s2 s3 u e p bounds?
	b.Roll(7)                // -- pad? bounds? s1 s2 s3 u e p

	b.Dup(2)  // -- pad? bounds? s1 s2 s3 u e p e p
	b.Roll(5) // -- pad? bounds? s1 s2 s3 p u e p e
	b.Roll(5) // -- pad? bounds? s1 s2 s3 e p u e p
	b.Roll(3) // -- pad? bounds? s1 s2 s3 e p p u e
	b.Roll(3) // -- pad? bounds? s1 s2 s3 e p e p u
	b.Call("validateExtra") // -- pad? bounds? s1 s2 s3 e p extra?
	b.Roll(7)               // -- pad? bounds? extra? s1 s2 s3 e p

	b.Call("validateRedef") // -- pad? bounds? extra? redef?

	b.And(4) // -- valid?
	b.Return()
}

func buildValidatePad(b *grunt.Builder) {
	b.Label("validatePad")
	// entry parmid -- pad-valid?
	b.Input(1) // -- e p pad0
	b.Input(2) // -- e p pad0 pad12
	b.PushN(0)
	b.Eq(3) // -- e p zeroed?
	b.Not() // -- e p not-zeroed?
	b.JmpIf("padInvalid")

	b.Pop(2)
	b.PushB(true)
	b.Return()

	b.Label("padInvalid")
	b.Roll(2)
	b.PushN(EventPad)
	b.Roll(3) // -- eid p e
	b.PushS(strPadNotZero)
	b.Roll(3) // -- eid msg p e
	b.Call("emitError")
	b.PushB(false)
	b.Return()
}

// buildValidateBounds checks both bound values against the caller's
// [min, max] range and that lbnd <= hbnd.
func buildValidateBounds(b *grunt.Builder) {
	b.Label("validateBounds")
	// entry parmid max min -- bounds-valid?

	b.Dup(4)   // -- e p max min e p max min
	b.Input(4) // -- e p max min e p max min l
	b.Dup(1)   // -- e p max min e p max min l l
	b.Roll(10) // -- l e p max min e p max min l

	b.PushN(EventLBnd)
	b.Roll(6) // -- l e p max min eid e p max min l
	b.PushS(strBadLowBound)
	b.Roll(6)               // -- l e p max min eid msg e p max min l
	b.Call("validateRange") // -- l e p max min l?
	b.Roll(6)               // -- l? l e p max min

	b.Dup(4)   // -- l? l e p max min e p max min
	b.Input(4) // -- l? l e p max min e p max min h
	b.Dup(1)   // -- l? l e p max min e p max min h h
	b.Roll(11) // -- l? h l e p max min e p max min h

	b.PushN(EventHBnd)
	b.Roll(6) // -- l? h l e p max min eid e p max min h
	b.PushS(strBadHighBnd)
	b.Roll(6)               // -- l? h l e p max min eid msg e p max min h
	b.Call("validateRange") // -- l? h l e p max min h?
	b.Roll(8)               // -- h? l? h l e p max min

	b.Pop(2)  // -- h? l? h l e p
	b.Roll(4) // -- h? l? p h l e
	b.Roll(4) // -- h? l? e p h l
	b.Call("validateOrder")

	b.And(3) // -- valid?
	b.Return()
}

// buildValidateRange is shared by both the low-bound and high-bound
// checks: the caller supplies the event ID, the message suffix, and the
// [min, max] range alongside the bound being checked.
func buildValidateRange(b *grunt.Builder) {
	b.Label("validateRange")
	// eid msg entry parmid max min bound -- bound-valid?

	b.Dup(1)  // -- eid msg e p max min b b
	b.Roll(4) // -- eid msg e p b max min b
	b.Roll(2) // -- eid msg e p b max b min
	b.Lt()    // -- eid msg e p b max lt?
	b.Roll(3) // -- eid msg e p lt? b max
	b.Gt()    // -- eid msg e p lt? gt?
	b.Or(2)   // -- eid msg e p invalid?
	b.JmpIf("rangeInvalid")

	b.Pop(4)
	b.PushB(true)
	b.Return()

	b.Label("rangeInvalid")
	b.Roll(2) // -- eid msg p e
	b.Call("emitError")
	b.PushB(false)
	b.Return()
}

func buildValidateOrder(b *grunt.Builder) {
	b.Label("validateOrder")
	// entry parmid hbnd lbnd -- order-valid?
	b.Lt() // -- e p not-valid?
	b.JmpIf("orderInvalid")

	b.Pop(2)
	b.PushB(true)
	b.Return()

	b.Label("orderInvalid")
	b.Roll(2) // -- p e
	b.PushS(strBadOrder)
	b.Roll(3) // -- msg p e
	b.PushN(EventOrder)
	b.Roll(4) // -- eid msg p e
	b.Call("emitError")
	b.PushB(false)
	b.Return()
}

func buildValidateExtra(b *grunt.Builder) {
	b.Label("validateExtra")
	// entry parmid unused -- valid?
	b.PushN(0)
	b.Eq(2) // -- e p valid?
	b.Not() // -- e p not-valid?
	b.JmpIf("extraInvalid")

	b.Pop(2)
	b.PushB(true)
	b.Return()

	b.Label("extraInvalid")
	b.Roll(2) // -- p e
	b.PushS(strFollowsUnus)
	b.Roll(3) // -- msg p e
	b.PushN(EventExtra)
	b.Roll(4) // -- eid msg p e
	b.Call("emitError")
	b.PushB(false)
	b.Return()
}

func buildValidateRedef(b *grunt.Builder) {
	b.Label("validateRedef")
	// s1 s2 s3 entry parmid -- redef-valid?

	b.Dup(1)  // -- s1 s2 s3 e p p
	b.Roll(5) // -- s1 p s2 s3 e p
	b.Dup(1)  // -- s1 p s2 s3 e p p
	b.Roll(4) // -- s1 p s2 p s3 e p
	b.Dup(1)  // -- s1 p s2 p s3 e p p
	b.Roll(3) // -- s1 p s2 p s3 p e p
	b.Roll(8) // -- p s1 p s2 p s3 p e
	b.Roll(8) // -- e p s1 p s2 p s3 p

	b.Eq(2)   // -- e p s1 p s2 p s3?
	b.Roll(5) // -- e p s3? s1 p s2 p
	b.Eq(2)   // -- e p s3? s1 p s2?
	b.Roll(3) // -- e p s3? s2? s1 p
	b.Eq(2)   // -- e p s3? s2? s1?
	b.Or(3)   // -- e p not-valid?
	b.JmpIf("redefInvalid")

	b.Pop(2)
	b.PushB(true)
	b.Return()

	b.Label("redefInvalid")
	b.Roll(2) // -- p e
	b.PushS(strRedefines)
	b.Roll(3) // -- msg p e
	b.PushN(EventRedef)
	b.Roll(4) // -- eid msg p e
	b.Call("emitError")
	b.PushB(false)
	b.Return()
}

func buildHandleParmErr(b *grunt.Builder) {
	b.Label("handleParmErr")
	// entry --
	b.Input(1)
	b.Pop(1)
	b.Input(2)
	b.Pop(1)
	b.Input(4)
	b.Pop(1)
	b.Input(4)
	b.Pop(1)
	b.Call("emitErrorParmErr")
	b.Return()
}

// buildCounters assembles the small bookkeeping subroutines MAIN uses to
// tally unused and valid entries, and to derive the invalid count and
// final verdict from them.
func buildCounters(b *grunt.Builder) {
	b.Label("incUnused")
	// old-unused valid parmid -- new-unused valid parmid
	b.Roll(3)
	b.Roll(3)
	b.PushN(1)
	b.Add()
	b.Roll(3)
	b.Return()

	b.Label("incValid")
	// unused old-valid parmid -- unused new-valid parmid
	b.Roll(2)
	b.PushN(1)
	b.Add()
	b.Roll(2)
	b.Return()

	b.Label("computeInvalid")
	// unused valid -- unused invalid valid
	b.Dup(2)
	b.Add()
	b.PushN(EntryCount)
	b.Roll(2)
	b.Sub()
	b.Roll(2)
	b.Return()

	b.Label("computeResult")
	// u i v -- valid? u i v
	b.Roll(2)
	b.Dup(1)
	b.PushN(0)
	b.Eq(2)
	b.Roll(4)
	b.Roll(2)
	b.Return()
}

// buildEmitters assembles the three message-producing subroutines:
// emitInfo for the final summary line, emitErrorParmErr for unrecognized
// parameter identifiers, and emitError for every other per-field check.
func buildEmitters(b *grunt.Builder) {
	b.Label("emitInfo")
	// unused invalid valid --
	b.PushS(strTableHeader)
	b.Output()
	b.Output()
	b.PushS(strValidSep)
	b.Output()
	b.Output()
	b.PushS(strInvalidSep)
	b.Output()
	b.Output()
	b.PushS(strUnusedSuf)
	b.Output()
	b.PushN(SeverityInformation)
	b.PushN(EventValidationInfo)
	b.Flush()
	b.Return()

	b.Label("emitErrorParmErr")
	// entry --
	b.PushS(strEntryPrefix)
	b.Output()
	b.Output()
	b.PushS(strBadParmID)
	b.Output()
	b.PushN(SeverityError)
	b.PushN(EventParm)
	b.Flush()
	b.Return()

	b.Label("emitError")
	// eid msg parm entry --
	b.PushS(strEntryPrefix)
	b.Output()
	b.Output()
	b.PushS(strParmInfix)
	b.Output()
	b.Call("parmToStr")
	b.Output()
	b.Output()
	// -- eid
	b.PushN(SeverityError)
	b.Roll(2)
	b.Flush()
	b.Return()
}

// buildParmToStr assembles the identifier-to-display-name lookup used by
// emitError's message text.
func buildParmToStr(b *grunt.Builder) {
	b.Label("parmToStr")
	// parmid -- parmstring

	parmCase(b, ParmUnused, strNameUnused, "parmCaseApe")
	parmCase(b, ParmApe, strNameApe, "parmCaseBat")
	parmCase(b, ParmBat, strNameBat, "parmCaseCat")
	parmCase(b, ParmCat, strNameCat, "parmCaseDog")
	parmCase(b, ParmDog, strNameDog, "parmCaseNorth")
	parmCase(b, ParmNorth, strNameNorth, "parmCaseSouth")
	parmCase(b, ParmSouth, strNameSouth, "parmCaseEast")
	parmCase(b, ParmEast, strNameEast, "parmCaseWest")
	parmCase(b, ParmWest, strNameWest, "parmCaseUnknown")

	b.Pop(1)
	b.PushS(strNameUnknown)
	b.Return()
}

// parmCase emits one entry of the parmToStr lookup chain: if parmid
// equals code, return the string at nameIdx; otherwise fall through to
// nextLabel to try the next candidate.
func parmCase(b *grunt.Builder, code uint32, nameIdx uint32, nextLabel string) {
	b.Dup(1)
	b.PushN(code)
	b.Eq(2)
	b.Not()
	b.JmpIf(nextLabel)
	b.Pop(1)
	b.PushS(nameIdx)
	b.Return()
	b.Label(nextLabel)
}
