package a

type User struct {
	Name string
}

//mockguard:target
type Service interface {
	//mockguard:param input notnull min=0
	Square(input *int) int

	/* want "MG010: UnknownParam" */ //mockguard:param id lenmin=1
	Find(name string) *User

	/* want "MG011: ParamIndexOutOfRange" */ //mockguard:param #2 notnull
	Save(u *User) error

	/* want "MG030: BoundOnNonNumeric" */ //mockguard:param name min=1
	Rename(name string) error

	/* want "MG031: LengthOnNonLengthy" */ //mockguard:param n lenmax=3
	Limit(n int)

	/* want "MG032: NotNullNeverFails" */ //mockguard:param n notnull
	Count(n int) int

	/* want "MG020: BadConstraint" */ //mockguard:param n min=many
	Grow(n int)

	/* want "MG001: UnknownDirective" */ //mockguard:check n
	Shrink(n int)

	/* want "MG012: UnnamedParam" */ //mockguard:param _ notnull
	Drop(_ *User)

	/* want "MG003: MisplacedDirective" */ //mockguard:target
	Touch()

	//mockguard:param tags lenmin=1
	//mockguard:param #0 lenmax=16
	Tag(id string, tags ...string)

	//mockguard:param v min=0 max=10
	Any(v any)
}

/* want "MG003: MisplacedDirective" */ //mockguard:param x notnull
type Misplaced interface {
	Do(x *int)
}

type Store struct{}

//mockguard:param key lenmin=1 pattern="^[a-z]+$"
func (Store) Get(key string) *User { return nil }

/* want "MG010: UnknownParam" */ //mockguard:param value notnull
func (*Store) Put(key string, val *User) {}

/* want "MG003: MisplacedDirective" */ //mockguard:param x min=0
func helper(x int) int { return x }
