package collector

import "encoding/json"

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Records   []RawRecord
	ByKeyword map[string][]RawRecord
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPeriod(keyword, _, _ string) ([]RawRecord, []byte, error) {
	if m.Err != nil {
		return nil, nil, m.Err
	}
	records := m.Records
	if m.ByKeyword != nil {
		records = m.ByKeyword[keyword]
	}
	body, _ := json.Marshal(records)
	return records, body, nil
}
