package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"udyam/internal/schema"
	dErrors "udyam/pkg/domain-errors"
)

const fixtureSchema = `{
  "step1": [
    {"id": "aadhaar", "name": "aadhaar", "label": "Aadhaar", "required": true, "pattern": "\\d{12}", "typeAttr": "text"},
    {"id": "name", "name": "name", "label": "Name", "required": true, "typeAttr": "text"},
    {"id": "consent", "name": "consent", "typeAttr": "checkbox", "label": "I consent"},
    {"id": "otp", "name": "otp", "label": "OTP", "required": true, "pattern": "\\d{6}", "typeAttr": "text"},
    {"id": "hidden", "name": "hidden", "typeAttr": "hidden"},
    {"id": "submit", "name": "submit", "type": "button"}
  ],
  "step2": [
    {"id": "pan", "name": "pan", "label": "PAN", "required": true, "pattern": "[A-Z]{5}\\d{4}[A-Z]{1}"},
    {"id": "gstin", "name": "gstin", "label": "GSTIN", "pattern": "\\d{2}[A-Z]{5}"}
  ]
}`

type ValidatorSuite struct {
	suite.Suite
	store *schema.Store
	step1 *Validator
	step2 *Validator
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupSuite() {
	store, err := schema.NewStore(schema.BytesLoader([]byte(fixtureSchema)))
	s.Require().NoError(err)
	s.store = store

	s.step1, err = BuildStep(store, "step1")
	s.Require().NoError(err)
	s.step2, err = BuildStep(store, "step2")
	s.Require().NoError(err)
}

func validStep1() map[string]any {
	return map[string]any{
		"aadhaar": "123456789012",
		"name":    "Test User",
		"consent": true,
		"otp":     "123456",
	}
}

func (s *ValidatorSuite) TestValidPayload() {
	s.True(s.step1.Validate(validStep1()).Valid())
	s.NoError(s.step1.Validate(validStep1()).Err())
}

func (s *ValidatorSuite) TestHiddenFieldsAndButtonsAreSkipped() {
	s.Equal([]string{"aadhaar", "name", "consent", "otp"}, s.step1.Keys())
}

func (s *ValidatorSuite) TestAadhaarMustBeTwelveDigits() {
	for _, bad := range []string{"12345", "1234567890123", "12345678901a", "abcdefghijkl"} {
		p := validStep1()
		p["aadhaar"] = bad
		res := s.step1.Validate(p)
		s.Equal("aadhaar", res.Field, bad)
		s.Equal("Aadhaar must be 12 digits", res.Message, bad)
	}
}

func (s *ValidatorSuite) TestNumericAadhaarIsRejected() {
	p := validStep1()
	p["aadhaar"] = 123456789012
	s.Equal("Aadhaar must be 12 digits", s.step1.Validate(p).Message)
}

func (s *ValidatorSuite) TestMissingRequiredField() {
	p := validStep1()
	delete(p, "name")
	res := s.step1.Validate(p)
	s.Equal("name", res.Field)
	s.Equal("Name is required", res.Message)

	p["name"] = "   "
	s.Equal("Name is required", s.step1.Validate(p).Message)
}

func (s *ValidatorSuite) TestConsentFalseAlwaysRejects() {
	for _, consent := range []any{false, "false", "", nil} {
		p := validStep1()
		p["consent"] = consent
		res := s.step1.Validate(p)
		s.Equal("consent", res.Field)
		s.Equal("I consent must be accepted", res.Message)
	}
}

func (s *ValidatorSuite) TestConsentAcceptsStringTrue() {
	p := validStep1()
	p["consent"] = "true"
	s.True(s.step1.Validate(p).Valid())
}

func (s *ValidatorSuite) TestDeclarationAliasForConsent() {
	p := validStep1()
	delete(p, "consent")
	p["declaration"] = true
	s.True(s.step1.Validate(p).Valid())
}

func (s *ValidatorSuite) TestFirstFailingFieldInSchemaOrder() {
	res := s.step1.Validate(map[string]any{"aadhaar": "1", "consent": false})
	s.Equal("aadhaar", res.Field)
}

func (s *ValidatorSuite) TestUnknownKeysIgnored() {
	p := validStep1()
	p["favouriteColour"] = "teal"
	s.True(s.step1.Validate(p).Valid())
}

func (s *ValidatorSuite) TestPAN() {
	s.True(s.step2.Validate(map[string]any{"pan": "ABCDE1234F"}).Valid())

	res := s.step2.Validate(map[string]any{"pan": "ABCD1234F"})
	s.Equal("PAN must be 5 letters, 4 digits, 1 letter (e.g., ABCDE1234F)", res.Message)
	s.True(dErrors.HasCode(res.Err(), dErrors.CodeValidation))
}

func (s *ValidatorSuite) TestLiteralPatternIsAnchored() {
	res := s.step2.Validate(map[string]any{"pan": "ABCDE1234F", "gstin": "27ABCDEX"})
	s.Equal("gstin", res.Field)
	s.Equal("GSTIN has an invalid format", res.Message)

	s.True(s.step2.Validate(map[string]any{"pan": "ABCDE1234F", "gstin": "27ABCDE"}).Valid())
}

func (s *ValidatorSuite) TestOptionalEmptyValueSkipsPattern() {
	s.True(s.step2.Validate(map[string]any{"pan": "ABCDE1234F", "gstin": ""}).Valid())
}

func (s *ValidatorSuite) TestWithoutSkipsKinds() {
	p := validStep1()
	delete(p, "otp")
	s.False(s.step1.Validate(p).Valid())
	s.True(s.step1.Without(schema.KindOTP).Validate(p).Valid())
}

func (s *ValidatorSuite) TestByKind() {
	p := validStep1()
	p["consent"] = "true"
	got := s.step1.ByKind(p)

	s.Equal("123456789012", got[schema.KindAadhaar])
	s.Equal("Test User", got[schema.KindName])
	s.Equal(true, got[schema.KindConsent])
	s.Equal("123456", got[schema.KindOTP])
}

func TestByKindResolvesASPNetNamesAndKindAliases(t *testing.T) {
	store, err := schema.NewStore(schema.EmbeddedLoader())
	require.NoError(t, err)
	v, err := BuildStep(store, "step1")
	require.NoError(t, err)

	byName := v.ByKind(map[string]any{
		"ctl00$ContentPlaceHolder1$txtadharno":    "123456789012",
		"ctl00$ContentPlaceHolder1$chkDecarationA": true,
	})
	assert.Equal(t, "123456789012", byName[schema.KindAadhaar])
	assert.Equal(t, true, byName[schema.KindConsent])

	byKind := v.ByKind(map[string]any{"aadhaar": "123456789012", "name": "Test User", "declaration": true})
	assert.Equal(t, "Test User", byKind[schema.KindName])
	assert.Equal(t, true, byKind[schema.KindConsent])
}

func TestBuildStepUnknownStep(t *testing.T) {
	store, err := schema.NewStore(schema.EmbeddedLoader())
	require.NoError(t, err)

	_, err = BuildStep(store, "step7")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestBuildRejectsBrokenLiteralPattern(t *testing.T) {
	_, err := Build([]schema.FieldDescriptor{{Name: "x", TypeAttr: "text", Pattern: "[", Kind: schema.KindGeneric}})
	assert.Error(t, err)
}
