package clean

type Amount float64

//mockguard:target
type Ledger interface {
	//mockguard:param account lenmin=1 lenmax=34
	//mockguard:param amount min=0.01
	Credit(account string, amount Amount) error

	//mockguard:param ids lenmin=1
	//mockguard:param limit notnull min=1
	Batch(ids []string, limit *int) error

	//mockguard:param filter expr="size(value) > 0"
	Query(filter map[string]string) error

	Close() error
}
