// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ConsistencyError GenericError
type ExistsError GenericError
type InvalidError GenericError
type IOError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	AccountNotOwned            = InvalidError("account is not owned by caller")
	AddressTypeMismatch        = InvalidError("address type does not match register")
	AlreadyClaimed             = ConsistencyError("transfer is already claimed")
	AlreadyCredited            = ConsistencyError("debit is already credited")
	AlreadyExists              = ExistsError("register already exists")
	AlreadyInitialised         = InvalidError("already initialised")
	BucketCountMismatch        = InvalidError("bucket count does not match index")
	CannotTransferRegister     = InvalidError("register type cannot be transferred")
	ChecksumMismatch           = ConsistencyError("checksum mismatch")
	ClaimNotAuthorised         = InvalidError("claim is not authorised for caller")
	ConfigurationNotTable      = InvalidError("configuration must return a table")
	ContractNotFound           = NotFoundError("contract not found")
	CreditAmountMismatch       = InvalidError("credit and debit totals do not match")
	CreditNotAuthorised        = InvalidError("credit is not authorised for caller")
	CreditWrongAccount         = InvalidError("credit account is not the debit destination")
	DuplicateField             = RecordError("duplicate field name")
	EmptyFieldName             = RecordError("empty field name")
	ExpiredRequest             = InvalidError("request has expired")
	FieldNotFound              = NotFoundError("field not found")
	FieldNotMutable            = InvalidError("field is not mutable")
	FieldSizeChanged           = LengthError("field size cannot change")
	FieldTypeMismatch          = InvalidError("field type mismatch")
	GenesisMismatch            = InvalidError("genesis does not match public key")
	GlobalNameContainsColon    = InvalidError("global name cannot contain a colon")
	IdentifierMismatch         = InvalidError("token identifiers do not match")
	InsufficientBalance        = InvalidError("account does not have sufficient balance")
	InsufficientStake          = InvalidError("trust account does not have sufficient stake")
	InvalidAddress             = InvalidError("invalid address")
	InvalidAmount              = InvalidError("invalid amount")
	InvalidBloomSnapshot       = RecordError("invalid bloom filter snapshot")
	InvalidCount               = InvalidError("invalid count")
	InvalidCursor              = InvalidError("invalid cursor")
	InvalidDatabaseVersion     = InvalidError("invalid database version")
	InvalidFieldType           = RecordError("invalid field type")
	InvalidKeyLength           = LengthError("invalid key length")
	InvalidName                = InvalidError("invalid name")
	InvalidOperation           = InvalidError("invalid operation")
	InvalidOwner               = InvalidError("invalid owner")
	InvalidPenalty             = ConsistencyError("unstake penalty does not match expected value")
	InvalidPublicKey           = InvalidError("invalid public key")
	InvalidRegisterType        = InvalidError("invalid register type")
	InvalidSignature           = InvalidError("invalid signature")
	InvalidStandard            = InvalidError("object is not of the required standard")
	InvalidState               = RecordError("invalid state record")
	InvalidStateVersion        = RecordError("invalid state version")
	InvalidTransactionVersion  = RecordError("invalid transaction version")
	InvalidTrustScore          = InvalidError("trust score exceeds the time since the last update")
	KeyNotFound                = NotFoundError("key not found")
	MissingPostState           = InvalidError("missing post-state")
	MissingPreState            = InvalidError("missing pre-state")
	NameAddressMismatch        = InvalidError("name address does not match derivation")
	NamespaceAddressMismatch   = InvalidError("namespace address does not match derivation")
	NamespaceContainsColon     = InvalidError("namespace cannot contain a colon")
	NamespaceReserved          = InvalidError("namespace name is reserved")
	NameStartsWithColon        = InvalidError("name cannot start with a colon")
	NonCanonicalEncoding       = RecordError("payload is not in canonical encoding")
	NotInitialised             = NotFoundError("not initialised")
	NoTransaction              = ProcessError("no transaction in progress")
	NotTransferred             = InvalidError("register is not in transit")
	OwnerTransferNotAuthorised = InvalidError("caller is not the register owner")
	PayloadTooLarge            = LengthError("payload too large")
	PostStateMismatch          = ConsistencyError("post-state checksum mismatch")
	PreStateMismatch           = ConsistencyError("pre-state does not match database")
	ProofAlreadyExists         = ConsistencyError("proof already exists")
	RateLimiting               = ProcessError("rate limiting")
	RegisterNotFound           = NotFoundError("register not found")
	RequestNotFound            = NotFoundError("stake change request not found")
	RequestProcessed           = InvalidError("stake change request already processed")
	ReservedAddress            = InvalidError("address is in reserved range")
	ReservedField              = ConsistencyError("field name is reserved")
	SectorKeyMismatch          = ConsistencyError("sector key does not match requested key")
	StateNotPruned             = InvalidError("state is not pruned")
	StreamEndOfBuffer          = LengthError("stream read past end of buffer")
	StreamSeekOutOfRange       = LengthError("stream seek out of range")
	TokenIdentifierRequired    = InvalidError("token identifier must be non-zero")
	TokenSupplyMismatch        = InvalidError("token supply must equal initial balance")
	TrailingData               = RecordError("trailing data after record")
	TransactionInProgress      = ProcessError("transaction already in progress")
	TransferToSelf             = InvalidError("cannot transfer register to current owner")
	TrustAddressMismatch       = InvalidError("trust address does not match caller")
	UnknownOperation           = InvalidError("unknown operation")
	UnsupportedStakeChange     = InvalidError("stake change amount is zero")
	ValueTooLarge              = LengthError("value exceeds maximum size")
	WildcardAddress            = InvalidError("wildcard address is not allowed")
	WrongDebitContract         = InvalidError("contract is not a debit")
	WrongTransferContract      = InvalidError("contract is not a transfer of this register")
	ZeroAmount                 = InvalidError("amount must be greater than zero")
	ZeroBalanceRequired        = InvalidError("new register must have zero balance")
	ZeroTrustRequired          = InvalidError("new trust account must have zero balance, stake and trust")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ConsistencyError) Error() string { return string(e) }
func (e ExistsError) Error() string      { return string(e) }
func (e InvalidError) Error() string     { return string(e) }
func (e IOError) Error() string          { return string(e) }
func (e LengthError) Error() string      { return string(e) }
func (e NotFoundError) Error() string    { return string(e) }
func (e ProcessError) Error() string     { return string(e) }
func (e RecordError) Error() string      { return string(e) }

// NewIOError - wrap a failed disk operation
func NewIOError(operation string, err error) error {
	if nil == err {
		return nil
	}
	return IOError(operation + ": " + err.Error())
}

// determine the class of an error
func IsErrConsistency(e error) bool { _, ok := e.(ConsistencyError); return ok }
func IsErrExists(e error) bool      { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool     { _, ok := e.(InvalidError); return ok }
func IsErrIO(e error) bool          { _, ok := e.(IOError); return ok }
func IsErrLength(e error) bool      { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool    { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool     { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool      { _, ok := e.(RecordError); return ok }

// IsValidation - true for the classes that reject a single contract
// without touching state
func IsValidation(e error) bool {
	return IsErrExists(e) || IsErrInvalid(e) || IsErrLength(e) || IsErrNotFound(e) || IsErrRecord(e)
}
