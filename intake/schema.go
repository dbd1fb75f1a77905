package intake

import "strings"

// Field describes one recognized customer attribute.
type Field struct {
	Key      string
	Label    string
	Required bool // hard requirement: must be non-empty before confirmation
	Contact  bool // counts toward the at-least-one-contact-method requirement
}

// MissingContact is the pseudo field key reported when none of the
// contact methods is filled.
const MissingContact = "phone|email|wechat_id"

// Schema fixes the set of legal FieldSet keys and the mandatory-field
// policy: name and company are required, plus at least one contact
// method of phone, email or wechat_id.
type Schema struct {
	fields []Field
	byKey  map[string]Field
}

var baseFields = []Field{
	{Key: "name", Label: "姓名", Required: true},
	{Key: "company", Label: "公司", Required: true},
	{Key: "position", Label: "职位"},
	{Key: "phone", Label: "电话", Contact: true},
	{Key: "email", Label: "邮箱", Contact: true},
	{Key: "wechat_id", Label: "微信号", Contact: true},
	{Key: "budget", Label: "预算"},
	{Key: "intent_level", Label: "意向等级"},
	{Key: "notes", Label: "备注"},
}

var editFields = []Field{
	{Key: "industry", Label: "行业"},
	{Key: "stage", Label: "销售阶段"},
	{Key: "source", Label: "客户来源"},
}

func newSchema(fields []Field) *Schema {
	byKey := make(map[string]Field, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f
	}
	return &Schema{fields: fields, byKey: byKey}
}

// CreateSchema returns the schema used when registering a new customer.
func CreateSchema() *Schema {
	return newSchema(baseFields)
}

// EditSchema extends the create schema with the attributes that are
// only editable on an existing customer.
func EditSchema() *Schema {
	return newSchema(append(append([]Field{}, baseFields...), editFields...))
}

// Has reports whether key is a legal field key.
func (s *Schema) Has(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// Keys returns the field keys in schema order.
func (s *Schema) Keys() []string {
	keys := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// Filter drops every key the schema does not recognize. The input is
// not modified.
func (s *Schema) Filter(delta FieldSet) FieldSet {
	out := make(FieldSet, len(delta))
	for k, v := range delta {
		if s.Has(k) {
			out[k] = v
		}
	}
	return out
}

// Missing evaluates the mandatory-field policy and returns the keys
// still blocking confirmation. An empty result means the local gate is
// satisfied.
func (s *Schema) Missing(fields FieldSet) []string {
	var missing []string
	hasContact := false
	anyContactField := false
	for _, f := range s.fields {
		val := strings.TrimSpace(fields[f.Key])
		if f.Required && val == "" {
			missing = append(missing, f.Key)
		}
		if f.Contact {
			anyContactField = true
			if val != "" {
				hasContact = true
			}
		}
	}
	if anyContactField && !hasContact {
		missing = append(missing, MissingContact)
	}
	return missing
}

// Summary renders the collected fields as the confirmation block shown
// to the user before the record is created.
func (s *Schema) Summary(fields FieldSet) string {
	var sb strings.Builder
	sb.WriteString("━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString("📋 客户信息确认\n")
	sb.WriteString("━━━━━━━━━━━━━━━━━━\n")
	for _, f := range s.fields {
		if val := fields[f.Key]; val != "" {
			sb.WriteString(f.Label)
			sb.WriteString("：")
			sb.WriteString(val)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString("请确认以上信息是否正确？点击「确认创建」即可创建客户。")
	return sb.String()
}

// Label returns the display label for key, or the key itself when the
// schema does not recognize it.
func (s *Schema) Label(key string) string {
	if f, ok := s.byKey[key]; ok {
		return f.Label
	}
	return key
}
