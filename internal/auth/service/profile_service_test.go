package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/repository/memory"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/service"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/validator"
	autherror "github.com/AnthoniusHendriyanto/realm-auth/internal/errors"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/logging"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = domain.Identity{Realm: testRealm, Username: testUsername}

func newProfileService(t *testing.T) (*service.ProfileService, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	require.NoError(t, repo.Put(*storedUser(t)))
	return service.NewProfileService(repo, validator.NewProfileValidator(), logging.Discard()), repo
}

func validProfile() dto.ProfileInput {
	return dto.ProfileInput{
		Realm:     testRealm,
		Username:  testUsername,
		FirstName: "Bruce",
		LastName:  "Wayne",
		Email:     "updatedemail@wayneenterprises.com",
	}
}

func TestProfileService_GetProfile(t *testing.T) {
	s, repo := newProfileService(t)
	ctx := context.Background()

	out, err := s.GetProfile(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, testUsername, out.Username)
	assert.Equal(t, testRealm, out.Realm)
	assert.Equal(t, "bruce@wayneenterprises.com", out.Email)

	t.Run("record vanished after authorization", func(t *testing.T) {
		repo.Delete(testRealm, testUsername)

		out, err := s.GetProfile(ctx, testIdentity)
		assert.Nil(t, out)
		assert.Equal(t, autherror.ErrNotFound, err)
	})
}

func TestProfileService_GetProfile_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := service.NewProfileService(mockRepo, validator.NewProfileValidator(), logging.Discard())

	mockRepo.EXPECT().GetByRealmAndUsername(gomock.Any(), testRealm, testUsername).Return(nil, errors.New("db error"))

	_, err := s.GetProfile(context.Background(), testIdentity)
	assert.ErrorContains(t, err, "db error")
	assert.NotErrorIs(t, err, autherror.ErrNotFound)
}

func TestProfileService_UpdateProfile_PersistsChange(t *testing.T) {
	s, _ := newProfileService(t)
	ctx := context.Background()

	out, err := s.UpdateProfile(ctx, testIdentity, validProfile())
	require.NoError(t, err)
	assert.Equal(t, "updatedemail@wayneenterprises.com", out.Email)

	got, err := s.GetProfile(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, "updatedemail@wayneenterprises.com", got.Email)
}

func TestProfileService_UpdateProfile_IdentityFieldsOptional(t *testing.T) {
	s, _ := newProfileService(t)

	in := validProfile()
	in.Realm = ""
	in.Username = ""

	_, err := s.UpdateProfile(context.Background(), testIdentity, in)
	assert.NoError(t, err)
}

func TestProfileService_UpdateProfile_ValidationLeavesRecordUnchanged(t *testing.T) {
	s, repo := newProfileService(t)
	ctx := context.Background()
	before, err := repo.GetByRealmAndUsername(ctx, testRealm, testUsername)
	require.NoError(t, err)

	in := validProfile()
	in.FirstName = ""
	in.Email = "nope"

	out, err := s.UpdateProfile(ctx, testIdentity, in)

	assert.Nil(t, out)
	var verr *autherror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 2)

	after, err := repo.GetByRealmAndUsername(ctx, testRealm, testUsername)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestProfileService_UpdateProfile_OtherSubjectForbidden(t *testing.T) {
	tests := map[string]func(in *dto.ProfileInput){
		"other username": func(in *dto.ProfileInput) { in.Username = "joker" },
		"other realm":    func(in *dto.ProfileInput) { in.Realm = "arkham" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No store call is expected at all.
			mockRepo := mocks.NewMockUserRepository(ctrl)
			s := service.NewProfileService(mockRepo, validator.NewProfileValidator(), logging.Discard())

			in := validProfile()
			mutate(&in)

			out, err := s.UpdateProfile(context.Background(), testIdentity, in)
			assert.Nil(t, out)
			assert.Equal(t, autherror.ErrForbidden, err)
		})
	}
}

func TestProfileService_UpdateProfile_StoreFailures(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		check   func(t *testing.T, err error)
	}{
		{
			name:    "record vanished",
			repoErr: autherror.ErrNotFound,
			check: func(t *testing.T, err error) {
				assert.Equal(t, autherror.ErrNotFound, err)
			},
		},
		{
			name:    "database error",
			repoErr: errors.New("db error"),
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "db error")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockUserRepository(ctrl)
			s := service.NewProfileService(mockRepo, validator.NewProfileValidator(), logging.Discard())

			mockRepo.EXPECT().UpdateProfile(gomock.Any(), testRealm, testUsername, domain.Profile{
				FirstName: "Bruce",
				LastName:  "Wayne",
				Email:     "updatedemail@wayneenterprises.com",
			}).Return(nil, tt.repoErr)

			_, err := s.UpdateProfile(context.Background(), testIdentity, validProfile())
			tt.check(t, err)
		})
	}
}
