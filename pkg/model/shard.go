package model

// Shard mirrors one cat-shards row. Everything is a string because the
// snapshot is the cat API's JSON output, which emits strings throughout.
type Shard struct {
	Index  string `json:"index"`
	Shard  string `json:"shard"`
	Prirep string `json:"prirep"`
	State  string `json:"state"`
	Docs   string `json:"docs,omitempty"`
	Store  string `json:"store,omitempty"`
	IP     string `json:"ip,omitempty"`
	Node   string `json:"node,omitempty"`
}
