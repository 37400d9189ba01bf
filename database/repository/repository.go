package repository

import (
	bookingRepo "soothe/database/repository/booking"
	ledgerRepo "soothe/database/repository/ledger"
	professionalRepo "soothe/database/repository/professional"
	resourceRepo "soothe/database/repository/resource"
	sequenceRepo "soothe/database/repository/sequence"
	userRepo "soothe/database/repository/user"
)

// Re-export the BookingRepository interface and constructor.
type BookingRepository = bookingRepo.BookingRepository

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo

// Re-export the UserRepository interface and constructor.
type UserRepository = userRepo.UserRepository

var NewMongoUserRepo = userRepo.NewMongoUserRepo

// Re-export the ProfessionalRepository interface and constructor.
type ProfessionalRepository = professionalRepo.ProfessionalRepository

type EligibilityCriteria = professionalRepo.EligibilityCriteria

var NewMongoProfessionalRepo = professionalRepo.NewMongoProfessionalRepo

// Re-export the resource repositories.
type SubscriptionRepository = resourceRepo.SubscriptionRepository

type VoucherRepository = resourceRepo.VoucherRepository

type CouponRepository = resourceRepo.CouponRepository

var (
	NewMongoSubscriptionRepo = resourceRepo.NewMongoSubscriptionRepo
	NewMongoVoucherRepo      = resourceRepo.NewMongoVoucherRepo
	NewMongoCouponRepo       = resourceRepo.NewMongoCouponRepo
)

// Re-export the LedgerRepository interface and constructor.
type LedgerRepository = ledgerRepo.LedgerRepository

var NewMongoLedgerRepo = ledgerRepo.NewMongoLedgerRepo

// Re-export the SequenceRepository interface and constructor.
type SequenceRepository = sequenceRepo.SequenceRepository

var NewMongoSequenceRepo = sequenceRepo.NewMongoSequenceRepo
