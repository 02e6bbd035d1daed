package domain

import "testing"

func validReq() ReportRequest {
	return ReportRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
		Limit:     100,
	}
}

func TestReportRequestValidate(t *testing.T) {
	if err := validReq().Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := []func(*ReportRequest){
		func(r *ReportRequest) { r.StartDate = "" },
		func(r *ReportRequest) { r.StartDate = "01/06/2025" },
		func(r *ReportRequest) { r.EndDate = "2025-6-1" },
		func(r *ReportRequest) { r.Skip = -1 },
		func(r *ReportRequest) { r.Limit = 0 },
		func(r *ReportRequest) { r.Limit = 10_001 },
		func(r *ReportRequest) { r.Months = 121 },
	}
	for i, mutate := range bad {
		r := validReq()
		mutate(&r)
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d accepted: %+v", i, r)
		}
	}
}

func TestClampPage(t *testing.T) {
	r := ReportRequest{Skip: -5, Limit: 0}
	r.ClampPage()
	if r.Skip != 0 || r.Limit != 1 {
		t.Fatalf("clamped = skip %d limit %d", r.Skip, r.Limit)
	}

	r = ReportRequest{Skip: 10, Limit: 999_999}
	r.ClampPage()
	if r.Limit != MaxLimit {
		t.Fatalf("limit = %d, want %d", r.Limit, MaxLimit)
	}
}

func TestPolicyRequestValidate(t *testing.T) {
	p := PolicyRequest{ReportRequest: validReq(), PolicyType: "All"}
	if err := p.Validate(); err != nil {
		t.Fatalf("valid policy request rejected: %v", err)
	}
	p.PolicyType = "maybe"
	if err := p.Validate(); err == nil {
		t.Fatal("bad PolicyType accepted")
	}
	// the embedded request is validated too
	p = PolicyRequest{ReportRequest: validReq()}
	p.StartDate = "junk"
	if err := p.Validate(); err == nil {
		t.Fatal("bad embedded StartDate accepted")
	}
}

func TestListOrAllMarshal(t *testing.T) {
	b, err := ListOrAll(nil).MarshalJSON()
	if err != nil {
		t.Fatalf("marshal nil: %v", err)
	}
	if string(b) != `"ALL"` {
		t.Fatalf("nil marshals as %s", b)
	}
	b, err = ListOrAll{"NZ", "AU"}.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal list: %v", err)
	}
	if string(b) != `["NZ","AU"]` {
		t.Fatalf("list marshals as %s", b)
	}
}
