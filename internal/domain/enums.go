package domain

type CoverageStatus string

const (
	CoverageBalanced     CoverageStatus = "balanced"
	CoverageUnderCovered CoverageStatus = "under_covered"
	CoverageOverCovered  CoverageStatus = "over_covered"
)

type TransferStatus string

const (
	TransferPlanned TransferStatus = "planned"
	TransferApplied TransferStatus = "applied"
)

type AbsenceStatus string

const (
	AbsenceRequested AbsenceStatus = "requested"
	AbsenceApproved  AbsenceStatus = "approved"
	AbsenceRejected  AbsenceStatus = "rejected"
)

type AbsenceType string

const (
	AbsenceVacation  AbsenceType = "vacation"
	AbsenceSickLeave AbsenceType = "sick_leave"
	AbsenceTraining  AbsenceType = "training"
	AbsenceOther     AbsenceType = "other"
)

type AlertKind string

const (
	AlertConflictBlocked AlertKind = "conflict_blocked"
	AlertTransferApplied AlertKind = "transfer_applied"
)

// TransferProjectID is the synthetic project that carries assignments
// materialized when a transfer is applied.
const TransferProjectID = "TRANSFERT"
