package models

type User struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	CoverURL      string `json:"coverUrl,omitempty"`
	AboutMe       string `json:"aboutMe,omitempty"`
	City          string `json:"city,omitempty"`
	Country       string `json:"country,omitempty"`
	Company       string `json:"company,omitempty"`
	JobTitle      string `json:"jobTitle,omitempty"`
	FacebookLink  string `json:"facebookLink,omitempty"`
	InstagramLink string `json:"instagramLink,omitempty"`
	LinkedinLink  string `json:"linkedinLink,omitempty"`
	TwitterLink   string `json:"twitterLink,omitempty"`
	FriendCount   int    `json:"friendCount"`
	PostCount     int    `json:"postCount"`
}

// ProfileUpdate carries the profile fields a user may edit. Nil fields are
// left untouched by Apply.
type ProfileUpdate struct {
	Name          *string `json:"name,omitempty"`
	AvatarURL     *string `json:"avatarUrl,omitempty"`
	CoverURL      *string `json:"coverUrl,omitempty"`
	AboutMe       *string `json:"aboutMe,omitempty"`
	City          *string `json:"city,omitempty"`
	Country       *string `json:"country,omitempty"`
	Company       *string `json:"company,omitempty"`
	JobTitle      *string `json:"jobTitle,omitempty"`
	FacebookLink  *string `json:"facebookLink,omitempty"`
	InstagramLink *string `json:"instagramLink,omitempty"`
	LinkedinLink  *string `json:"linkedinLink,omitempty"`
	TwitterLink   *string `json:"twitterLink,omitempty"`
	FriendCount   *int    `json:"friendCount,omitempty"`
	PostCount     *int    `json:"postCount,omitempty"`
}

// Apply returns a copy of u with every non-nil field of the update set.
func (p ProfileUpdate) Apply(u User) User {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&u.Name, p.Name)
	setString(&u.AvatarURL, p.AvatarURL)
	setString(&u.CoverURL, p.CoverURL)
	setString(&u.AboutMe, p.AboutMe)
	setString(&u.City, p.City)
	setString(&u.Country, p.Country)
	setString(&u.Company, p.Company)
	setString(&u.JobTitle, p.JobTitle)
	setString(&u.FacebookLink, p.FacebookLink)
	setString(&u.InstagramLink, p.InstagramLink)
	setString(&u.LinkedinLink, p.LinkedinLink)
	setString(&u.TwitterLink, p.TwitterLink)
	if p.FriendCount != nil {
		u.FriendCount = *p.FriendCount
	}
	if p.PostCount != nil {
		u.PostCount = *p.PostCount
	}
	return u
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}
