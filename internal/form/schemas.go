package form

// SportCategories are the categories the backend ships with.
var SportCategories = []Option{
	{Value: "b4686c69-a4fb-4284-9a0c-8c8e271836f3", Label: "Football"},
	{Value: "f4c3597b-2155-4c63-9a7a-5dea3434ccaa", Label: "Basketball"},
	{Value: "2fe56924-fe8a-4ccd-8792-432fe3885692", Label: "Volleyball"},
	{Value: "6da6376b-932a-4f5c-a7aa-c70dacd7b705", Label: "Badminton"},
}

// EventSchema is the "Add New Event" form. The description is submitted as plain text.
func EventSchema() Schema {
	return Schema{
		Fields: []Field{
			{Name: "sport_category", APIName: "sport_category", Label: "Sport Category", Kind: KindChoice, Required: true, Options: SportCategories},
			{Name: "slug", Label: "Slug", Kind: KindString, Required: true},
			{Name: "title", Label: "Title", Kind: KindString, Required: true},
			{Name: "thumbnail", Label: "Thumbnail URL", Kind: KindURL, Required: true},
			{Name: "location", Label: "Location", Kind: KindString},
			{Name: "date", Label: "Date", Kind: KindDate, Required: true},
			{Name: "contactInfo", APIName: "contact_info", Label: "Contact Info", Kind: KindString},
			{Name: "about", Label: "About", Kind: KindString},
			{Name: "ticketPrice", APIName: "ticket_price", Label: "Ticket Price", Kind: KindNumber, Required: true},
			{Name: "ticketReference", APIName: "ticket_reference", Label: "Ticket Reference", Kind: KindString},
			{Name: "venueMap", APIName: "venue_map", Label: "Venue Map URL", Kind: KindString},
			{Name: "event_type", Label: "Event Type", Kind: KindString, Required: true},
		},
		Body: Body{APIName: "description", Label: "Description", Format: BodyPlain},
	}
}

// ClubSchema is the sport club form. The description is submitted as HTML and contact details
// are nested under contact_info.
func ClubSchema() Schema {
	return Schema{
		Fields: []Field{
			{Name: "sportCategory", APIName: "sport_category", Label: "Sport Category", Kind: KindChoice, Required: true, Options: SportCategories,
				Message: "Sport Category is required and cannot be blank."},
			{Name: "slug", Label: "Slug", Kind: KindString, Required: true, Message: "Slug is required and cannot be blank."},
			{Name: "sportName", APIName: "sport_name", Label: "Sport Name", Kind: KindString, Required: true, Message: "Sport Name is required and cannot be blank."},
			{Name: "latitude", Label: "Latitude", Kind: KindNumber, Required: true, Message: "Latitude is required and cannot be blank."},
			{Name: "longitude", Label: "Longitude", Kind: KindNumber, Required: true, Message: "Longitude is required and cannot be blank."},
			{Name: "seatNumber", APIName: "seat_number", Label: "Seat Number", Kind: KindInt, Required: true, Message: "Seat Number is required and cannot be blank."},
			{Name: "skillLevel", APIName: "skill_level", Label: "Skill Level", Kind: KindString, Required: true, Message: "Skill Level is required and cannot be blank."},
			{Name: "image", Label: "Image URL", Kind: KindString},
			{Name: "reviews", Label: "Reviews", Kind: KindString},
			{Name: "profile", Label: "Profile", Kind: KindString},
			{Name: "cover", Label: "Cover", Kind: KindString},
			{Name: "price", Label: "Price", Kind: KindString, Required: true, Message: "Price is required and cannot be blank."},
			{Name: "firstPhone", APIName: "contact_info.first_phone", Label: "First Phone", Kind: KindString},
			{Name: "secondPhone", APIName: "contact_info.second_phone", Label: "Second Phone", Kind: KindString},
			{Name: "email", APIName: "contact_info.email", Label: "Email", Kind: KindString},
			{Name: "website", APIName: "contact_info.website", Label: "Website", Kind: KindString},
			{Name: "facebook", APIName: "contact_info.facebook", Label: "Facebook", Kind: KindString},
			{Name: "telegram", APIName: "contact_info.telegram", Label: "Telegram", Kind: KindString},
			{Name: "instagram", APIName: "contact_info.instagram", Label: "Instagram", Kind: KindString},
			{Name: "twitter", APIName: "contact_info.twitter", Label: "Twitter", Kind: KindString},
			{Name: "istadAccount", APIName: "contact_info.istad_account", Label: "Istad Account", Kind: KindString},
		},
		Body: Body{APIName: "description", Label: "Description", Format: BodyHTML},
	}
}

// NewsSchema is the news content form; content_type is fixed.
func NewsSchema() Schema {
	return Schema{
		Fields: []Field{
			{Name: "slug", Label: "Slug", Kind: KindString, Required: true, Message: "Slug is required"},
			{Name: "title", Label: "Title", Kind: KindString, Required: true, Message: "Title is required"},
			{Name: "thumbnail", Label: "Thumbnail URL", Kind: KindURL, Required: true, Message: "Thumbnail URL is required"},
			{Name: "isDraft", APIName: "is_draft", Label: "Draft", Kind: KindBool},
		},
		Body:      Body{APIName: "body", Label: "Body", Format: BodyPlain},
		Constants: map[string]any{"content_type": "news"},
	}
}
