package repository

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sistemaagil/vistoria/models"
)

// SavePolicy names the consistency choice for the multi-step save sequence.
type SavePolicy string

const (
	// SaveBestEffort keeps the reference behavior: every insert commits on
	// its own, a failure attaching photo N does not undo the inspection row
	// or photos 1..N-1 and does not abort photos N+1 onward.
	SaveBestEffort SavePolicy = "best_effort"

	// SaveAtomic wraps create + attach in one transaction; any failure rolls
	// the whole save back.
	SaveAtomic SavePolicy = "atomic"
)

// ParseSavePolicy maps a config string to a policy, defaulting to
// best-effort.
func ParseSavePolicy(raw string) SavePolicy {
	if SavePolicy(raw) == SaveAtomic {
		return SaveAtomic
	}
	return SaveBestEffort
}

// PhotoInput is one materialized file ready to be recorded, paired with the
// category slot it fills.
type PhotoInput struct {
	Category string          `json:"category"`
	File     models.FileInfo `json:"file"`
}

// SaveResult summarizes one completed save sequence.
type SaveResult struct {
	InspectionID      uint     `json:"id"`
	Token             string   `json:"token"`
	PhotoIDs          []uint   `json:"photo_ids"`
	PhotosFailed      []string `json:"photos_failed,omitempty"`
	ObservationsSaved int      `json:"observations_saved"`
	BackupFile        string   `json:"-"`
}

// saveSnapshot is what the backup recorder persists per save: the full
// normalized payload, good enough to rebuild the request by hand.
type saveSnapshot struct {
	InspectionID uint                     `json:"vistoria_id"`
	Token        string                   `json:"token"`
	Intake       *models.InspectionIntake `json:"dados_originais"`
	Photos       []PhotoInput             `json:"photos"`
	Version      string                   `json:"backup_version"`
}

// SaveComplete runs the whole logical save: create inspection, attach the
// photos in input order, attach up to four observations matched to their
// foto_obs_N photos, then write the JSON backup snapshot. Steps execute
// strictly in that order. Under the best-effort policy each insert is its
// own transaction; under the atomic policy everything except the backup
// runs in one transaction.
func (r *InspectionRepository) SaveComplete(ctx context.Context, intake *models.InspectionIntake, photos []PhotoInput, policy SavePolicy) (*SaveResult, error) {
	var result *SaveResult
	var err error

	if policy == SaveAtomic {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result, err = r.withDB(tx).saveSequence(ctx, intake, photos, true)
			return err
		})
	} else {
		result, err = r.saveSequence(ctx, intake, photos, false)
	}
	if err != nil {
		return nil, err
	}

	// Backup is a recovery aid, never a reason to fail an already persisted
	// save.
	if r.recorder != nil {
		path, recErr := r.recorder.Record(result.Token, result.InspectionID, saveSnapshot{
			InspectionID: result.InspectionID,
			Token:        result.Token,
			Intake:       intake,
			Photos:       photos,
			Version:      "1.0",
		})
		if recErr != nil {
			zap.S().Errorw("backup snapshot failed", "token", result.Token, "error", recErr)
		} else {
			result.BackupFile = path
		}
	}
	return result, nil
}

func (r *InspectionRepository) saveSequence(ctx context.Context, intake *models.InspectionIntake, photos []PhotoInput, abortOnPhotoError bool) (*SaveResult, error) {
	insp, err := r.Create(ctx, intake)
	if err != nil {
		return nil, err
	}

	result := &SaveResult{
		InspectionID: insp.ID,
		Token:        insp.Token,
		PhotoIDs:     make([]uint, 0, len(photos)),
	}

	photoIDByCategory := make(map[string]uint, len(photos))
	for _, input := range photos {
		photo, err := r.AttachPhoto(ctx, insp.ID, input.Category, input.File)
		if err != nil {
			if abortOnPhotoError {
				return nil, err
			}
			zap.S().Errorw("photo attach failed, continuing",
				"token", insp.Token, "category", input.Category, "error", err)
			result.PhotosFailed = append(result.PhotosFailed, input.Category)
			continue
		}
		result.PhotoIDs = append(result.PhotoIDs, photo.ID)
		if _, dup := photoIDByCategory[input.Category]; !dup {
			photoIDByCategory[input.Category] = photo.ID
		}
	}

	// Observation slot N belongs to the foto_obs_N photo. A slot without a
	// matching photo is dropped without failing the save; that is the
	// documented best-effort policy, not an oversight.
	for slot, description := range intake.Observations {
		if description == "" {
			continue
		}
		category := "foto_obs_" + strconv.Itoa(slot+1)
		photoID, ok := photoIDByCategory[category]
		if !ok {
			zap.S().Warnw("observation dropped, no matching photo",
				"token", insp.Token, "category", category)
			continue
		}
		if _, err := r.AttachObservation(ctx, photoID, description, "", "", ""); err != nil {
			if abortOnPhotoError {
				return nil, err
			}
			zap.S().Errorw("observation attach failed, continuing",
				"token", insp.Token, "category", category, "error", err)
			continue
		}
		result.ObservationsSaved++
	}

	return result, nil
}
