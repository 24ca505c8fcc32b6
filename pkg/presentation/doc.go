// Package presentation assembles a credential presentation: it takes a
// PresentationSchema describing what a verifier requires, a map of
// credentials the holder controls, and a per-claim disclosure policy, and
// produces a Presentation carrying one pkg/pok proof per signature
// statement plus one pkg/subproof sub-proof per predicate statement, all
// bound together on a single Fiat-Shamir transcript. Verify replays the
// same transcript and checks the recomputed challenge matches.
package presentation
