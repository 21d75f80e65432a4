package wizard_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udyam/internal/registration/models"
	"udyam/internal/wizard"
)

// verifiedRegistration walks step 1 to completion and returns the id.
func verifiedRegistration(t *testing.T, fx *apiFixture) string {
	t.Helper()
	ctrl, err := wizard.NewStep1(fx.client, fx.fields(t, "step1"))
	require.NoError(t, err)
	resp, err := ctrl.SubmitAadhaar(context.Background(), validIdentity())
	require.NoError(t, err)
	_, err = ctrl.SubmitOTP(context.Background(), "123456")
	require.NoError(t, err)
	return resp.ID
}

type stepRecorder struct {
	calls int
}

func (r *stepRecorder) SubmitStep(context.Context, string, map[string]any) (*models.StepResponse, error) {
	r.calls++
	return &models.StepResponse{}, nil
}

func TestStep2_SavesPAN(t *testing.T) {
	fx := newAPIFixture(t)
	id := verifiedRegistration(t, fx)

	ctrl, err := wizard.NewStep2(fx.client, fx.fields(t, "step2"))
	require.NoError(t, err)

	resp, err := ctrl.SubmitPAN(context.Background(), id, map[string]any{
		"pan": " ABCDE1234F ", "pincode": "110001", "city": "Central Delhi", "state": "Delhi",
	})
	require.NoError(t, err)
	assert.Equal(t, "Step step2 saved successfully", resp.Message)
	assert.Equal(t, wizard.Step2Complete, ctrl.State())

	reg := ctrl.Registration()
	require.NotNil(t, reg)
	require.NotNil(t, reg.Step2)
	assert.Equal(t, id, reg.ID)
	assert.Equal(t, "ABCDE1234F", reg.Step2.PAN)
	assert.Equal(t, "110001", reg.Step2.Pincode)
	assert.True(t, reg.Step1.Verified)
}

func TestStep2_LocalFailuresSendNothing(t *testing.T) {
	fx := newAPIFixture(t)
	rec := &stepRecorder{}
	ctrl, err := wizard.NewStep2(rec, fx.fields(t, "step2"))
	require.NoError(t, err)

	_, err = ctrl.SubmitPAN(context.Background(), "", map[string]any{"pan": "ABCDE1234F"})
	var vErr *wizard.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Missing registration id", vErr.Message)

	_, err = ctrl.SubmitPAN(context.Background(), "some-id", map[string]any{"pan": "ABCD1234F"})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "PAN must be 5 letters, 4 digits, 1 letter (e.g., ABCDE1234F)", vErr.Message)

	_, err = ctrl.SubmitPAN(context.Background(), "some-id", map[string]any{"pan": "ABCDE1234F", "pincode": "1100"})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "PIN code must be 6 digits", vErr.Message)

	assert.Zero(t, rec.calls)
	assert.Equal(t, wizard.Step2Idle, ctrl.State())
}

func TestStep2_UnknownRegistration(t *testing.T) {
	fx := newAPIFixture(t)
	ctrl, err := wizard.NewStep2(fx.client, fx.fields(t, "step2"))
	require.NoError(t, err)

	_, err = ctrl.SubmitPAN(context.Background(), "does-not-exist", map[string]any{"pan": "ABCDE1234F"})
	var apiErr *wizard.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Registration not found", apiErr.Message)
	assert.Equal(t, wizard.Step2Error, ctrl.State())
	assert.Nil(t, ctrl.Registration())
}

func TestStep2_UnreachableServerUsesFallback(t *testing.T) {
	fx := newAPIFixture(t)
	ctrl, err := wizard.NewStep2(fx.client, fx.fields(t, "step2"))
	require.NoError(t, err)
	fx.server.Close()

	_, err = ctrl.SubmitPAN(context.Background(), "some-id", map[string]any{"pan": "ABCDE1234F"})
	var apiErr *wizard.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Error saving PAN", apiErr.Message)
	assert.Equal(t, wizard.Step2Error, ctrl.State())
}
