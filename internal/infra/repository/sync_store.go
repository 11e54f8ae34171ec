package repository

import "gorm.io/gorm"

// SyncStore composes the integration and appointment repositories into the
// single storage surface the sync use cases consume.
type SyncStore struct {
	*SyncGormRepository
	*AppointmentGormRepository
}

func NewSyncStore(db *gorm.DB) *SyncStore {
	return &SyncStore{
		SyncGormRepository:        NewSyncGormRepository(db),
		AppointmentGormRepository: NewAppointmentGormRepository(db),
	}
}
