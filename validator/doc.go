// Package validator checks candidate values against a repository.
//
// # Overview
//
// Three validators share one lookup pipeline:
//
//   - RecordExists: valid when a record matches the candidate
//   - NoRecordExists: valid when nothing matches
//   - UniqueRecord: like NoRecordExists, but a match on the record being
//     edited is not a conflict
//
// Each is built once from a Config and then called repeatedly:
//
//	v, err := validator.NewRecordExists(validator.Config[User]{
//		Finder: finder.NewRepositoryFinder(users),
//		Fields: "email",
//	})
//	ok, err := v.IsValid(ctx, validator.Scalar("a@b.com"))
//	if !ok {
//		log.Println(v.Messages()[validator.NoRecordFound])
//	}
//
// # Candidates
//
// A Candidate is a Scalar (one field only), a Map keyed by field name, or a
// Sequence zipped positionally with the fields. A candidate whose shape does
// not fit the fields returns a *MismatchError (errors.Is ErrRuntimeMismatch);
// this is caller misuse, not a failed check.
//
// # Errors
//
// Constructors return errors matching ErrInvalidConfiguration. Business
// failures are reported as false plus a message keyed by Reason, retrievable
// through Messages until the next call.
package validator
