package importer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentities struct {
	nextID      int
	createdIDs  map[string]string
	credentials []string
	deleted     []string
	createErr   map[string]error
	deleteErr   error
	createCalls int
}

func (f *fakeIdentities) CreateIdentity(_ context.Context, email, credential, _ string) (string, error) {
	f.createCalls++
	f.credentials = append(f.credentials, credential)
	if err, ok := f.createErr[email]; ok {
		return "", err
	}
	f.nextID++
	id := fmt.Sprintf("id-%d", f.nextID)
	if f.createdIDs == nil {
		f.createdIDs = map[string]string{}
	}
	f.createdIDs[email] = id
	return id, nil
}

func (f *fakeIdentities) DeleteIdentity(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type fakeProfiles struct {
	known   []string
	listErr error
	saved   []Profile
	saveErr map[string]error
}

func (f *fakeProfiles) SaveProfile(_ context.Context, p Profile) error {
	if err, ok := f.saveErr[p.Email]; ok {
		return err
	}
	f.saved = append(f.saved, p)
	return nil
}

func (f *fakeProfiles) ListEmails(_ context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	emails := append([]string(nil), f.known...)
	for _, p := range f.saved {
		emails = append(emails, p.Email)
	}
	return emails, nil
}

func memberRow(name, email, gender, membership string) *Row {
	r := NewRow()
	r.Set("Full Name", String(name))
	r.Set("Email Address", String(email))
	r.Set("Gender", String(gender))
	r.Set("Membership Type", String(membership))
	return r
}

func TestRunEndToEndScenario(t *testing.T) {
	t.Parallel()

	ids := &fakeIdentities{}
	profiles := &fakeProfiles{}
	im := New(ids, profiles, nil)

	missingName := NewRow()
	missingName.Set("Email Address", String("third@example.com"))

	rows := []*Row{
		memberRow("Ali Raza", "ali@example.com", "male", "Full"),
		memberRow("Ali Again", "ALI@EXAMPLE.COM", "male", "Full"), // 同邮箱只差大小写
		missingName,
	}

	res, err := im.Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []string{"Row 4: Missing Name or Email."}, res.Errors)
	assert.Empty(t, res.Warnings)

	require.Len(t, profiles.saved, 1)
	assert.Equal(t, "ali@example.com", profiles.saved[0].Email)
	require.Len(t, ids.credentials, 1)
	assert.Regexp(t, regexp.MustCompile(`^Member@\d{4}$`), ids.credentials[0])
}

func TestRunIsIdempotentAcrossRuns(t *testing.T) {
	t.Parallel()

	ids := &fakeIdentities{}
	profiles := &fakeProfiles{}
	rows := []*Row{
		memberRow("Ali Raza", "ali@example.com", "male", "Full"),
		memberRow("Sara Khan", "sara@example.com", "female", "Student"),
	}

	first, err := New(ids, profiles, nil).Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Success)

	// 第二次运行能看到第一次落库的邮箱
	second, err := New(ids, profiles, nil).Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Success)
	assert.Equal(t, second.Total, second.Skipped)
	assert.Empty(t, second.Errors)
}

func TestRunProviderAlreadyRegistered(t *testing.T) {
	t.Parallel()

	ids := &fakeIdentities{createErr: map[string]error{"dup@example.com": ErrAlreadyRegistered}}
	profiles := &fakeProfiles{}
	rows := []*Row{
		memberRow("Dup One", "dup@example.com", "male", "Full"),
		memberRow("Dup Two", "Dup@Example.com", "male", "Full"),
	}

	res, err := New(ids, profiles, nil).Run(context.Background(), rows)
	require.NoError(t, err)

	// 第一行打到提供方拿到"已注册"，第二行必须被索引拦下
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 1, ids.createCalls)
	assert.Empty(t, res.Errors)
}

func TestRunIdentityCreateFailure(t *testing.T) {
	t.Parallel()

	ids := &fakeIdentities{createErr: map[string]error{"bad@example.com": errors.New("provider unavailable")}}
	profiles := &fakeProfiles{}
	rows := []*Row{memberRow("Bad Row", "bad@example.com", "male", "Full")}

	res, err := New(ids, profiles, nil).Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Row 2 (bad@example.com): provider unavailable", res.Errors[0])
	assert.Empty(t, profiles.saved)
}

func TestRunRollsBackIdentityOnProfileFailure(t *testing.T) {
	t.Parallel()

	ids := &fakeIdentities{}
	profiles := &fakeProfiles{saveErr: map[string]error{"ali@example.com": errors.New("store rejected write")}}
	rows := []*Row{memberRow("Ali Raza", "ali@example.com", "male", "Full")}

	res, err := New(ids, profiles, nil).Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Row 2 (ali@example.com): Profile creation failed: store rejected write", res.Errors[0])
	// 身份必须被补偿删除，不留孤儿
	assert.Equal(t, []string{ids.createdIDs["ali@example.com"]}, ids.deleted)
	assert.Empty(t, profiles.saved)
	assert.Empty(t, res.Warnings)
}

func TestRunSurfacesRollbackDeleteFailure(t *testing.T) {
	t.Parallel()

	ids := &fakeIdentities{deleteErr: errors.New("provider timeout")}
	profiles := &fakeProfiles{saveErr: map[string]error{"ali@example.com": errors.New("store rejected write")}}
	rows := []*Row{memberRow("Ali Raza", "ali@example.com", "male", "Full")}

	res, err := New(ids, profiles, nil).Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "orphaned")
	assert.Contains(t, res.Warnings[0], "provider timeout")
}

func TestRunFailsWhenSeedReadFails(t *testing.T) {
	t.Parallel()

	profiles := &fakeProfiles{listErr: errors.New("store throttled")}
	rows := []*Row{memberRow("Ali Raza", "ali@example.com", "male", "Full")}

	_, err := New(&fakeIdentities{}, profiles, nil).Run(context.Background(), rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed dedup index")
}

func TestRunRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := New(&fakeIdentities{}, &fakeProfiles{}, nil).Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestRunDerivesProfileFields(t *testing.T) {
	t.Parallel()

	ids := &fakeIdentities{}
	profiles := &fakeProfiles{}
	im := New(ids, profiles, nil)
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	im.now = func() time.Time { return now }

	r := memberRow("Sara Khan", " Sara@Example.com ", "f", "Student Membership")
	r.Set("CNIC", Number(3520212345671))
	r.Set("Registration Date", Number(45000)) // 2023 年的序列日期

	res, err := im.Run(context.Background(), []*Row{r})
	require.NoError(t, err)
	require.Equal(t, 1, res.Success)

	p := profiles.saved[0]
	assert.Equal(t, "sara@example.com", p.Email)
	assert.Equal(t, "Female", p.Gender)
	assert.Equal(t, "student", p.Role)
	assert.Equal(t, "Student Member", p.MembershipType)
	assert.Equal(t, "active", p.MembershipStatus)
	assert.Equal(t, "3520212345671", p.CNIC)
	assert.Equal(t, 2023, p.CreatedAt.Year())
	assert.Equal(t, now, p.SubscriptionFrom)
	assert.Equal(t, now.AddDate(1, 0, 0), p.SubscriptionTo)
}

func TestRunFallsBackToNowWhenTimestampUnreadable(t *testing.T) {
	t.Parallel()

	ids := &fakeIdentities{}
	profiles := &fakeProfiles{}
	im := New(ids, profiles, nil)
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	im.now = func() time.Time { return now }

	r := memberRow("Ali Raza", "ali@example.com", "male", "Full")
	r.Set("Registration Date", String("N/A"))

	_, err := im.Run(context.Background(), []*Row{r})
	require.NoError(t, err)
	assert.Equal(t, now, profiles.saved[0].CreatedAt)
}

func TestNormalizeGender(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"male":   "Male",
		"M":      "Male",
		"Female": "Female",
		"f":      "Female",
		"other":  "other",
		"":       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeGender(in), "input %q", in)
	}
}

func TestInferMembership(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in       string
		wantRole string
		wantType string
	}{
		{"Student", "student", "Student Member"},
		{"Associate Membership", "member", "Associate Member"},
		{"LIFE", "member", "Life Member"},
		{"Student (Life)", "student", "Life Member"},
		{"Regular", "member", "Full Member"},
		{"", "member", "Full Member"},
	}
	for _, tc := range cases {
		role, typ := InferMembership(tc.in)
		assert.Equal(t, tc.wantRole, role, "input %q", tc.in)
		assert.Equal(t, tc.wantType, typ, "input %q", tc.in)
	}
}
