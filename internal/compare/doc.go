// Package compare is the differential comparator.
//
// Given the outcomes of the reference and candidate parsers on one fixture,
// Compare produces exactly one Verdict. The reference is ground truth for
// "this input is invalid": when it rejects and the candidate accepts, the
// candidate is wrong, and vice versa. When both reject only the error
// kinds are compared. When both accept, the reference tree is normalized
// and compared structurally with the candidate tree; the verdict carries
// both trees and a go-cmp diff for diagnosis.
//
// Verdicts are deterministic and final. There is no soft-fail state.
package compare
