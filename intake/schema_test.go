package intake

import (
	"strings"
	"testing"
)

func TestMissingRequiresNameCompanyAndOneContact(t *testing.T) {
	s := CreateSchema()

	missing := s.Missing(FieldSet{})
	wantMissing := map[string]bool{"name": true, "company": true, MissingContact: true}
	if len(missing) != len(wantMissing) {
		t.Fatalf("missing = %v, want keys %v", missing, wantMissing)
	}
	for _, key := range missing {
		if !wantMissing[key] {
			t.Errorf("unexpected missing key %q", key)
		}
	}

	// any single contact method satisfies the contact requirement
	for _, contact := range []string{"phone", "email", "wechat_id"} {
		fields := FieldSet{"name": "Jane", "company": "Acme", contact: "x"}
		if got := s.Missing(fields); len(got) != 0 {
			t.Errorf("missing with %s set = %v, want none", contact, got)
		}
	}

	// whitespace does not count as filled
	fields := FieldSet{"name": "  ", "company": "Acme", "phone": "555"}
	if got := s.Missing(fields); len(got) != 1 || got[0] != "name" {
		t.Errorf("missing = %v, want [name]", got)
	}
}

func TestMissingStaysEmptyUnderNonBlankingDeltas(t *testing.T) {
	s := CreateSchema()
	fields := FieldSet{"name": "Jane", "company": "Acme", "phone": "555-1234"}
	if got := s.Missing(fields); len(got) != 0 {
		t.Fatalf("precondition: missing = %v, want none", got)
	}

	// the gate stays satisfied for deltas that do not blank a
	// mandatory field
	for _, delta := range []FieldSet{
		{"budget": "¥50,000"},
		{"notes": ""},
		{"email": "jane@acme.com"},
		{"phone": "555-9999"},
	} {
		merged, err := s.Merge(fields, delta)
		if err != nil {
			t.Fatalf("merge failed: %v", err)
		}
		if got := s.Missing(merged); len(got) != 0 {
			t.Errorf("delta %v broke the gate: missing = %v", delta, got)
		}
		fields = merged
	}

	// blanking the only contact method re-opens the gate
	merged, err := s.Merge(fields, FieldSet{"phone": "", "email": "", "wechat_id": ""})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if got := s.Missing(merged); len(got) != 1 || got[0] != MissingContact {
		t.Errorf("missing = %v, want [%s]", got, MissingContact)
	}
}

func TestEditSchemaExtendsCreateSchema(t *testing.T) {
	create, edit := CreateSchema(), EditSchema()
	for _, key := range create.Keys() {
		if !edit.Has(key) {
			t.Errorf("edit schema lost base key %q", key)
		}
	}
	for _, key := range []string{"industry", "stage", "source"} {
		if create.Has(key) {
			t.Errorf("create schema unexpectedly recognizes %q", key)
		}
		if !edit.Has(key) {
			t.Errorf("edit schema missing extended key %q", key)
		}
	}
}

func TestSummaryListsOnlyFilledFieldsInOrder(t *testing.T) {
	s := CreateSchema()
	summary := s.Summary(FieldSet{
		"name":    "张三",
		"company": "ABC科技",
		"phone":   "13800138000",
	})

	for _, want := range []string{"姓名：张三", "公司：ABC科技", "电话：13800138000"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "邮箱") {
		t.Errorf("summary lists an empty field:\n%s", summary)
	}
	if strings.Index(summary, "姓名") > strings.Index(summary, "公司") {
		t.Error("summary fields out of schema order")
	}
}
