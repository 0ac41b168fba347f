package domain

type User struct {
	ID    int64
	Name  string
	Email string
}

func (u User) Short() UserShort { return UserShort{ID: u.ID, Name: u.Name} }

type UserShort struct {
	ID   int64
	Name string
}

type Category struct {
	ID   int64
	Name string
}
