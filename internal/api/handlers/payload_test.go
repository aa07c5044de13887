package handlers

import (
	"testing"

	"geo-calculator-service/internal/domain"
	"geo-calculator-service/internal/services"
)

func TestParsePayload(t *testing.T) {
	cases := map[string]services.Request{
		`{"type":"venue","venueId1":42}`: {Type: "venue", VenueID1: 42},
		`{"body":"{\"type\":\"person\",\"personId\":7}"}`: {Type: "person", PersonID: 7},
		`{"body":{"type":"venue_venue","venueId1":"3","venueId2":4}}`: {Type: "venue_venue", VenueID1: 3, VenueID2: 4},
		`{"type":"person_venue","personId":1,"venueId2":2,"venueId1":null}`: {Type: "person_venue", PersonID: 1, VenueID2: 2},
		`{"type":"person","body":""}`: {Type: "person"},
		`{}`: {},
		`{"type":"person","personId":9007199254740993}`: {Type: "person", PersonID: 9007199254740993},
		`{"type":"venue","venueId2":" 12 "}`: {Type: "venue", VenueID2: 12},
	}

	for event, want := range cases {
		got, err := ParsePayload([]byte(event))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", event, err)
			continue
		}
		got.RecalcFees = nil
		if got != want {
			t.Errorf("%s: got %+v, want %+v", event, got, want)
		}
	}
}

func TestParsePayloadKeepsRecalcFees(t *testing.T) {
	got, err := ParsePayload([]byte(`{"type":"person","personId":1,"recalc_fees":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RecalcFees != true {
		t.Fatalf("RecalcFees = %v, want true", got.RecalcFees)
	}
}

func TestParsePayloadRejectsMalformed(t *testing.T) {
	for _, event := range []string{
		``,
		`not json`,
		`[1,2]`,
		`{"body":"{broken"}`,
		`{"type":"person","personId":"abc"}`,
		`{"type":"person","personId":1.9}`,
		`{"type":"person","personId":true}`,
		`{"type":"person","personId":"1.5"}`,
		`{"type":"person","personId":1e3}`,
		`{"type":"person","personId":9223372036854775808}`,
		`{"type":"venue","venueId1":[1]}`,
		`{"type":"person","personId":1} {"personId":2}`,
	} {
		_, err := ParsePayload([]byte(event))
		if got := domain.KindOf(err); got != domain.KindValidation {
			t.Errorf("%q: kind = %v, want validation (err=%v)", event, got, err)
		}
	}
}
