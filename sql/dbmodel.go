package sql

/**
* A json document as stored in one of the document tables.
 */
type Row interface {
	GetID() string
	GetBody() string
	Set(id string, body string)
}

type Record struct {
	ID   string
	Body string
}

func (Record) Table() string {
	return "records"
}

func (r *Record) GetID() string {
	return r.ID
}

func (r *Record) GetBody() string {
	return r.Body
}

func (r *Record) Set(id string, body string) {
	r.ID = id
	r.Body = body
}

type PublicKey struct {
	ID   string
	Body string
}

func (PublicKey) Table() string {
	return "public_keys"
}

func (pk *PublicKey) GetID() string {
	return pk.ID
}

func (pk *PublicKey) GetBody() string {
	return pk.Body
}

func (pk *PublicKey) Set(id string, body string) {
	pk.ID = id
	pk.Body = body
}
