package service

import (
	"context"
)

var sampleUsers = []string{
	"Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "Hannah", "Isaac", "Jack",
	"Kelly", "Liam", "Mia", "Nathan", "Olivia", "Peter", "Quinn", "Rachel", "Samuel", "Tina",
	"Umar", "Victoria", "William", "Xander", "Yara", "Zane", "Aaron", "Bianca", "Carter", "Diana",
	"Elliot", "Fiona", "George", "Hazel", "Ian", "Jasmine", "Kevin", "Linda", "Mark", "Nina",
	"Oscar", "Paula", "Quincy", "Rita", "Steve", "Tracy", "Ursula", "Vince", "Wendy", "Xavier",
}

// "Bohemian Rhapsody" appears twice; the second insert is reported as a duplicate.
var sampleMedia = []CreateMediaRequest{
	{"Inception", "Movie"}, {"Interstellar", "Movie"}, {"The Dark Knight", "Movie"},
	{"Memento", "Movie"}, {"Titanic", "Movie"}, {"Avatar", "Movie"}, {"The Matrix", "Movie"},
	{"Shutter Island", "Movie"}, {"Parasite", "Movie"}, {"Fight Club", "Movie"},
	{"Breaking Bad", "WebShow"}, {"Game of Thrones", "WebShow"}, {"Friends", "WebShow"},
	{"Stranger Things", "WebShow"}, {"The Witcher", "WebShow"}, {"Sherlock", "WebShow"},
	{"The Office", "WebShow"}, {"Money Heist", "WebShow"}, {"Dark", "WebShow"},
	{"The Boys", "WebShow"}, {"Bohemian Rhapsody", "Song"}, {"Shape of You", "Song"},
	{"Someone Like You", "Song"}, {"Blinding Lights", "Song"}, {"Uptown Funk", "Song"},
	{"Rolling in the Deep", "Song"}, {"Let It Be", "Song"}, {"Yesterday", "Song"},
	{"Hey Jude", "Song"}, {"Despacito", "Song"}, {"No Time to Die", "Song"},
	{"Havana", "Song"}, {"Perfect", "Song"}, {"Senorita", "Song"}, {"Old Town Road", "Song"},
	{"Lose Yourself", "Song"}, {"Rap God", "Song"}, {"Smells Like Teen Spirit", "Song"},
	{"Wonderwall", "Song"}, {"Bohemian Rhapsody", "Song"}, {"Hotel California", "Song"},
	{"Sweet Child O' Mine", "Song"}, {"Billie Jean", "Song"}, {"Supernatural", "WebShow"},
	{"House of Cards", "WebShow"}, {"The Mandalorian", "WebShow"}, {"Westworld", "WebShow"},
	{"Black Mirror", "WebShow"}, {"Narcos", "WebShow"},
}

// Emma, Henry and Isabella are not sample users; their rows fail as unknown users.
var sampleReviews = []*SubmitReviewRequest{
	{User: "Alice", Media: "Inception", Rating: 5, Comment: "Amazing movie!"},
	{User: "Bob", Media: "Inception", Rating: 4, Comment: "Pretty good"},
	{User: "Charlie", Media: "Breaking Bad", Rating: 5, Comment: "Best TV series ever!"},
	{User: "David", Media: "The Matrix", Rating: 5, Comment: "Mind-blowing sci-fi classic!"},
	{User: "Emma", Media: "Interstellar", Rating: 5, Comment: "A masterpiece of space and time!"},
	{User: "Frank", Media: "The Matrix", Rating: 4, Comment: "Great visuals, complex story."},
	{User: "Grace", Media: "Inception", Rating: 4, Comment: "On second watch, still great!"},
	{User: "Henry", Media: "Breaking Bad", Rating: 5, Comment: "Brilliant writing and acting!"},
	{User: "Isabella", Media: "Interstellar", Rating: 5, Comment: "Emotional and scientifically deep!"},
	{User: "Jack", Media: "The Matrix", Rating: 5, Comment: "Revolutionary sci-fi film!"},
	{User: "Kelly", Media: "Titanic", Rating: 5, Comment: "A heartbreaking love story."},
	{User: "Liam", Media: "Avatar", Rating: 4, Comment: "Visually stunning but predictable plot."},
	{User: "Mia", Media: "Fight Club", Rating: 5, Comment: "An absolute cult classic!"},
	{User: "Nathan", Media: "The Dark Knight", Rating: 5, Comment: "Best portrayal of Joker ever!"},
	{User: "Olivia", Media: "The Office", Rating: 5, Comment: "Funniest show I've ever watched."},
	{User: "Peter", Media: "Game of Thrones", Rating: 4, Comment: "Loved it except for the last season."},
	{User: "Quinn", Media: "Sherlock", Rating: 5, Comment: "Benedict Cumberbatch nailed it!"},
	{User: "Rachel", Media: "Friends", Rating: 5, Comment: "Timeless sitcom, always fun!"},
	{User: "Samuel", Media: "Money Heist", Rating: 4, Comment: "Gripping but dragged in later seasons."},
	{User: "Tina", Media: "Stranger Things", Rating: 5, Comment: "Superb nostalgia and sci-fi mix."},
	{User: "Umar", Media: "Dark", Rating: 5, Comment: "Mind-bending time travel plot!"},
	{User: "Victoria", Media: "The Boys", Rating: 5, Comment: "A fresh take on superheroes!"},
	{User: "William", Media: "Bohemian Rhapsody", Rating: 5, Comment: "A fitting tribute to Freddie Mercury!"},
	{User: "Xander", Media: "Shape of You", Rating: 4, Comment: "Catchy but overplayed."},
	{User: "Yara", Media: "Someone Like You", Rating: 5, Comment: "Adele's voice is just magical."},
	{User: "Zane", Media: "Blinding Lights", Rating: 5, Comment: "Synthwave perfection."},
	{User: "Aaron", Media: "Uptown Funk", Rating: 4, Comment: "Great song to dance to!"},
	{User: "Bianca", Media: "Rolling in the Deep", Rating: 5, Comment: "Powerful vocals and deep lyrics."},
	{User: "Carter", Media: "Let It Be", Rating: 5, Comment: "Timeless classic."},
	{User: "Diana", Media: "Hey Jude", Rating: 5, Comment: "One of The Beatles' best songs."},
	{User: "Elliot", Media: "Despacito", Rating: 4, Comment: "Catchy and international hit."},
	{User: "Fiona", Media: "No Time to Die", Rating: 5, Comment: "Hauntingly beautiful James Bond theme."},
	{User: "George", Media: "Havana", Rating: 4, Comment: "Great Latin pop song."},
	{User: "Hazel", Media: "Perfect", Rating: 5, Comment: "A beautiful wedding song."},
	{User: "Ian", Media: "Senorita", Rating: 5, Comment: "Shawn and Camila's chemistry is great."},
	{User: "Jasmine", Media: "Old Town Road", Rating: 4, Comment: "Weird but surprisingly good!"},
	{User: "Kevin", Media: "Lose Yourself", Rating: 5, Comment: "Eminems best track!"},
	{User: "Linda", Media: "Rap God", Rating: 5, Comment: "Fastest rap ever, insane flow!"},
	{User: "Mark", Media: "Smells Like Teen Spirit", Rating: 5, Comment: "Grunge at its peak."},
	{User: "Nina", Media: "Wonderwall", Rating: 5, Comment: "Oasis best song!"},
	{User: "Oscar", Media: "Bohemian Rhapsody", Rating: 5, Comment: "A rock opera masterpiece."},
	{User: "Paula", Media: "Hotel California", Rating: 5, Comment: "An all-time classic rock song."},
	{User: "Quincy", Media: "Sweet Child O' Mine", Rating: 5, Comment: "Slashs guitar solo is legendary."},
	{User: "Rita", Media: "Billie Jean", Rating: 5, Comment: "Michael Jackson at his best."},
	{User: "Steve", Media: "Supernatural", Rating: 4, Comment: "Great series, but dragged on too long."},
	{User: "Tracy", Media: "House of Cards", Rating: 5, Comment: "Brilliant political drama."},
	{User: "Ursula", Media: "The Mandalorian", Rating: 5, Comment: "Star Wars done right!"},
	{User: "Vince", Media: "Westworld", Rating: 4, Comment: "Intriguing but got too complicated."},
	{User: "Wendy", Media: "Black Mirror", Rating: 5, Comment: "Each episode is mind-blowing."},
	{User: "Xavier", Media: "Narcos", Rating: 5, Comment: "Pablo Escobars story is gripping!"},
}

// SeedUsers registers the sample users one by one.
func (s *ReviewService) SeedUsers(ctx context.Context) *SeedReply {
	reply := &SeedReply{Results: make([]*SeedItemReply, 0, len(sampleUsers))}
	for _, name := range sampleUsers {
		_, err := s.CreateUser(ctx, &CreateUserRequest{Name: name})
		reply.add(name, err)
	}
	return reply
}

// SeedMedia registers the sample media one by one.
func (s *ReviewService) SeedMedia(ctx context.Context) *SeedReply {
	reply := &SeedReply{Results: make([]*SeedItemReply, 0, len(sampleMedia))}
	for i := range sampleMedia {
		_, err := s.CreateMedia(ctx, &sampleMedia[i])
		reply.add(sampleMedia[i].Title, err)
	}
	return reply
}

// SeedReviews submits the sample reviews through the bulk path.
func (s *ReviewService) SeedReviews(ctx context.Context) (*SubmitReviewsReply, error) {
	return s.SubmitReviews(ctx, &SubmitReviewsRequest{Reviews: sampleReviews})
}

func (r *SeedReply) add(name string, err error) {
	r.Results = append(r.Results, &SeedItemReply{Name: name, Error: err})
	if err == nil {
		r.Added++
	}
}
