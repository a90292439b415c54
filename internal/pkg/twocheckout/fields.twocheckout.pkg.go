package twocheckout

import (
	"encoding/json"
	"net/url"

	"github.com/samber/lo"
)

// FormFields is an insertion ordered string map holding the payload posted to
// the gateway. Overwriting a key keeps its original position.
type FormFields struct {
	keys   []string
	values map[string]string
}

// Field is a single key/value pair of a FormFields set.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func NewFormFields() *FormFields {
	return &FormFields{values: map[string]string{}}
}

func (f *FormFields) Set(key, value string) {
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

func (f *FormFields) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *FormFields) Delete(key string) {
	if _, exists := f.values[key]; !exists {
		return
	}
	delete(f.values, key)
	f.keys = lo.Without(f.keys, key)
}

func (f *FormFields) Len() int {
	return len(f.keys)
}

// Keys returns the field names in insertion order.
func (f *FormFields) Keys() []string {
	return append([]string(nil), f.keys...)
}

// Fields returns the ordered pairs, used by the redirect page template.
func (f *FormFields) Fields() []Field {
	return lo.Map(f.keys, func(k string, _ int) Field {
		return Field{Name: k, Value: f.values[k]}
	})
}

func (f *FormFields) Map() map[string]string {
	return lo.Assign(map[string]string{}, f.values)
}

// Values encodes the set for a form POST.
func (f *FormFields) Values() url.Values {
	v := url.Values{}
	for _, k := range f.keys {
		v.Set(k, f.values[k])
	}
	return v
}

func (f *FormFields) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Fields())
}

func (f *FormFields) UnmarshalJSON(data []byte) error {
	var pairs []Field
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	*f = *NewFormFields()
	for _, p := range pairs {
		f.Set(p.Name, p.Value)
	}
	return nil
}
