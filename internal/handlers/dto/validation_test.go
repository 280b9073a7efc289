package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindJSON(t *testing.T, body string, obj interface{}) []FieldError {
	t.Helper()
	RegisterValidators()
	return BindJSON([]byte(body), obj)
}

func fields(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestMatchaSessionCreate_Rating(t *testing.T) {
	tests := []struct {
		rating string
		valid  bool
	}{
		{"0.0", true},
		{"5.0", true},
		{"2.5", true},
		{"5.1", false},
		{"-0.1", false},
	}
	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			var req MatchaSessionCreate
			errs := bindJSON(t, `{"session_date":"2024-05-01","location":"Kyoto","matcha_type":"Latte Grade","rating":`+tt.rating+`}`, &req)
			if tt.valid {
				assert.Empty(t, errs)
				require.NotNil(t, req.Rating)
			} else {
				assert.Equal(t, []string{"rating"}, fields(errs))
			}
		})
	}
}

func TestMatchaSessionCreate_MatchaType(t *testing.T) {
	for _, mt := range []string{"Ceremonial Grade", "Premium Grade", "Culinary Grade", "Latte Grade"} {
		var req MatchaSessionCreate
		assert.Empty(t, bindJSON(t, `{"session_date":"2024-05-01","location":"Kyoto","matcha_type":"`+mt+`"}`, &req), mt)
	}

	var req MatchaSessionCreate
	errs := bindJSON(t, `{"session_date":"2024-05-01","location":"Kyoto","matcha_type":"Herbal"}`, &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "matcha_type", errs[0].Field)
	assert.Contains(t, errs[0].Reason, "Ceremonial Grade")
}

func TestMatchaSessionCreate_ReportsEveryField(t *testing.T) {
	var req MatchaSessionCreate
	errs := bindJSON(t, `{"rating":9}`, &req)

	assert.ElementsMatch(t, []string{"session_date", "location", "matcha_type", "rating"}, fields(errs))
}

func TestUserCreate_Validation(t *testing.T) {
	var req UserCreate
	errs := bindJSON(t, `{"username":"ab","email":"not-an-email","first_name":"Aiko","matcha_budget":-1}`, &req)

	assert.ElementsMatch(t, []string{"username", "email", "last_name", "matcha_budget"}, fields(errs))
}

func TestUserCreate_NestedSessionPath(t *testing.T) {
	var req UserCreate
	errs := bindJSON(t, `{"username":"matcha_fan","email":"fan@example.com","first_name":"Aiko","last_name":"Tanaka",
		"matcha_sessions":[{"session_date":"2024-05-01","location":"Kyoto","matcha_type":"Latte Grade","rating":7}]}`, &req)

	assert.Equal(t, []string{"matcha_sessions[0].rating"}, fields(errs))
}

func TestUserCreate_Username(t *testing.T) {
	for name, valid := range map[string]bool{
		"abc":                   true,
		"matcha_fan_2024":       true,
		"twenty_characters_ok":  true,
		"ab":                    false,
		"has space":             false,
		"dash-name":             false,
		"twentyone_characters_": false,
	} {
		var req UserCreate
		errs := bindJSON(t, `{"username":"`+name+`","email":"fan@example.com","first_name":"A","last_name":"B"}`, &req)
		assert.Equal(t, valid, len(errs) == 0, name)
	}
}

func TestUserUpdate_Partial(t *testing.T) {
	var req UserUpdate
	require.Empty(t, bindJSON(t, `{"first_name":"X"}`, &req))

	p := req.Patch()
	require.NotNil(t, p.FirstName)
	assert.Equal(t, "X", *p.FirstName)
	assert.Nil(t, p.Username)
	assert.Nil(t, p.Sessions)

	req = UserUpdate{}
	require.Empty(t, bindJSON(t, `{"matcha_sessions":[]}`, &req))
	p = req.Patch()
	require.NotNil(t, p.Sessions)
	assert.Empty(t, *p.Sessions)
}

func TestUserUpdate_InvalidEmail(t *testing.T) {
	var req UserUpdate
	assert.Equal(t, []string{"email"}, fields(bindJSON(t, `{"email":"nope"}`, &req)))
}

func TestBindJSON_WrongTypesReportedWithValidation(t *testing.T) {
	var req MatchaSessionCreate
	errs := bindJSON(t, `{"location": 12}`, &req)
	assert.ElementsMatch(t, []string{"location", "session_date", "matcha_type"}, fields(errs))
	for _, e := range errs {
		if e.Field == "location" {
			assert.Equal(t, "expected a string", e.Reason)
		}
	}

	var user UserCreate
	errs = bindJSON(t, `{"username":"ab","email":"nope","matcha_budget":"lots"}`, &user)
	assert.ElementsMatch(t, []string{"username", "email", "first_name", "last_name", "matcha_budget"}, fields(errs))
}

func TestBindJSON_BadDateIsAFieldError(t *testing.T) {
	var req MatchaSessionCreate
	errs := bindJSON(t, `{"session_date":"yesterday","location":"","matcha_type":"Herbal","rating":9}`, &req)

	assert.ElementsMatch(t, []string{"session_date", "location", "matcha_type", "rating"}, fields(errs))
	for _, e := range errs {
		if e.Field == "session_date" {
			assert.Equal(t, "must be a date in YYYY-MM-DD format", e.Reason)
		}
	}
}

func TestBindJSON_NestedWrongType(t *testing.T) {
	var req UserCreate
	errs := bindJSON(t, `{"username":"matcha_fan","email":"fan@example.com","first_name":"Aiko","last_name":"Tanaka",
		"matcha_sessions":[{"session_date":"2024-05-01","location":"Kyoto","matcha_type":"Latte Grade"},
		{"session_date":"2024-13-01","location":"Uji","matcha_type":"Latte Grade","rating":"high"}]}`, &req)

	assert.ElementsMatch(t, []string{"matcha_sessions[1].session_date", "matcha_sessions[1].rating"}, fields(errs))
}

func TestBindJSON_Malformed(t *testing.T) {
	var req MatchaSessionCreate
	for _, body := range []string{`{`, ``, `[1,2]`} {
		errs := bindJSON(t, body, &req)
		require.Len(t, errs, 1, body)
		assert.Equal(t, "body", errs[0].Field, body)
	}
}

func TestMatchaSessionCreate_Model(t *testing.T) {
	var req MatchaSessionCreate
	require.Empty(t, bindJSON(t, `{"id":"7b0c5e0e-3c1f-4a53-9c55-0d5b1f3c2a10","session_date":"2024-05-01","location":"Kyoto","matcha_type":"Latte Grade"}`, &req))

	s := req.Model()
	assert.Equal(t, "7b0c5e0e-3c1f-4a53-9c55-0d5b1f3c2a10", s.ID.String())
	assert.Equal(t, "2024-05-01", s.SessionDate.String())

	errs := bindJSON(t, `{"id":"not-a-uuid","session_date":"2024-05-01","location":"Kyoto","matcha_type":"Latte Grade"}`, &MatchaSessionCreate{})
	assert.Equal(t, []string{"id"}, fields(errs))
}

func TestMatchaSessionFilter_BadDate(t *testing.T) {
	bad := "05/01/2024"
	_, errs := MatchaSessionFilter{SessionDate: &bad}.Filter()
	assert.Equal(t, []string{"session_date"}, fields(errs))

	good := "2024-05-01"
	f, errs := MatchaSessionFilter{SessionDate: &good}.Filter()
	assert.Empty(t, errs)
	require.NotNil(t, f.SessionDate)
	assert.Equal(t, good, f.SessionDate.String())
}

func TestMatchaSessionFilter_ReportsEveryParameter(t *testing.T) {
	date, minRating, maxRating := "yesterday", "abc", "4.5"
	f, errs := MatchaSessionFilter{SessionDate: &date, MinRating: &minRating, MaxRating: &maxRating}.Filter()

	assert.ElementsMatch(t, []string{"session_date", "min_rating"}, fields(errs))
	require.NotNil(t, f.MaxRating)
	assert.Equal(t, 4.5, *f.MaxRating)
}

func TestUserFilter_Bounds(t *testing.T) {
	minBudget, maxBudget := "lots", "20"
	f, errs := UserFilter{MinBudget: &minBudget, MaxBudget: &maxBudget}.Filter()

	assert.Equal(t, []string{"min_budget"}, fields(errs))
	assert.Nil(t, f.MinBudget)
	require.NotNil(t, f.MaxBudget)
	assert.Equal(t, 20.0, *f.MaxBudget)
}
