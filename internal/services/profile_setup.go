package services

import (
	"context"

	"github.com/gatorguide/gatorguide/internal/appdata"
)

// ProfileSetupSteps is the fixed step count of the first-run wizard:
// major, academic scores, documents.
const ProfileSetupSteps = 3

// ProfileSetupFlow is the first-run variant of the wizard. Same step/back
// semantics as the questionnaire, but it commits through UpdateUser, and the
// final Continue uploads any picked documents before committing: an upload
// failure aborts the whole commit so no partial profile is ever written.
type ProfileSetupFlow struct {
	store *appdata.Store
	files FileStore

	step int // 1-based, matching the screen copy "Step 1 of 3"

	major string
	gpa   string
	sat   string
	act   string

	resumePick     string
	transcriptPick string
}

func NewProfileSetupFlow(store *appdata.Store, files FileStore) (*ProfileSetupFlow, error) {
	if !store.IsHydrated() {
		return nil, NewNotHydratedError("profile setup opened before hydration")
	}
	return &ProfileSetupFlow{store: store, files: files, step: 1}, nil
}

func (f *ProfileSetupFlow) Step() int { return f.step }

// Next advances toward the final step; it never commits.
func (f *ProfileSetupFlow) Next() {
	if f.step < ProfileSetupSteps {
		f.step++
	}
}

// Back steps backward; at step 1 it reports exit to the auth screen.
func (f *ProfileSetupFlow) Back() (exited bool) {
	if f.step > 1 {
		f.step--
		return false
	}
	return true
}

func (f *ProfileSetupFlow) SetMajor(v string) { f.major = v }

// SetGPA rejects values the GPA field would not accept.
func (f *ProfileSetupFlow) SetGPA(v string) error {
	if !ValidGPA(v) {
		return NewInvalidError("gpa must be a decimal between 0.0 and 4.0")
	}
	f.gpa = v
	return nil
}

func (f *ProfileSetupFlow) SetSAT(v string) error {
	if !ValidSAT(v) {
		return NewInvalidError("sat score must be between 400 and 1600")
	}
	f.sat = v
	return nil
}

func (f *ProfileSetupFlow) SetACT(v string) error {
	if !ValidACT(v) {
		return NewInvalidError("act score must be between 1 and 36")
	}
	f.act = v
	return nil
}

// PickResume and PickTranscript record a chosen local file; nothing is
// uploaded until Continue.
func (f *ProfileSetupFlow) PickResume(filename string)     { f.resumePick = filename }
func (f *ProfileSetupFlow) PickTranscript(filename string) { f.transcriptPick = filename }

// Continue performs the final commit: upload picked documents first, then
// write every profile field in one UpdateUser. If any upload fails the store
// is left untouched and the caller shows a retryable error.
func (f *ProfileSetupFlow) Continue(ctx context.Context) error {
	user := f.store.Snapshot().User
	if user == nil {
		return NewUnauthorizedError("no signed-in user")
	}

	// The profile stores the download URL, the same reference every other
	// upload path writes.
	var resumeURL, transcriptURL string
	if f.resumePick != "" {
		stored, err := f.files.Upload(ctx, user.UID, FileResume, f.resumePick)
		if err != nil {
			return err
		}
		resumeURL = stored.URL
	}
	if f.transcriptPick != "" {
		stored, err := f.files.Upload(ctx, user.UID, FileTranscript, f.transcriptPick)
		if err != nil {
			return err
		}
		transcriptURL = stored.URL
	}

	complete := true
	patch := appdata.UserPatch{
		Major:           &f.major,
		GPA:             &f.gpa,
		SAT:             &f.sat,
		ACT:             &f.act,
		ProfileComplete: &complete,
	}
	if resumeURL != "" {
		patch.Resume = &resumeURL
	}
	if transcriptURL != "" {
		patch.Transcript = &transcriptURL
	}
	if err := f.store.UpdateUser(ctx, patch); err != nil {
		return NewNotHydratedError(err.Error())
	}
	return nil
}

// Skip leaves the wizard without committing anything.
func (f *ProfileSetupFlow) Skip() {}
