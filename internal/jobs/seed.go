package jobs

import (
	"github.com/kubev2v/jobrunner/internal/models"
)

// DemoBatch is the batch the run command uses when no jobs file is given.
// job-4 fails validation.
func DemoBatch() []models.Job {
	mk := func(id, jobType string, payload any) models.Job {
		j, _ := models.NewJob(id, jobType, payload)
		return j
	}

	return []models.Job{
		mk("job-1", TypeEmail, EmailPayload{Recipient: "user@example.com", Subject: "Welcome"}),
		mk("job-2", TypeDataProcess, DataProcessPayload{RecordID: 101}),
		mk("job-3", TypeEmail, EmailPayload{Recipient: "admin@example.com", Subject: "Report"}),
		mk("job-4", TypeDataProcess, DataProcessPayload{RecordID: 14}),
		mk("job-5", TypeEmail, EmailPayload{Recipient: "support@example.com", Subject: "Update"}),
	}
}
