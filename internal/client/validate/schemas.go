package validate

// Form values travel as strings, so numbers and dates are checked with
// patterns rather than JSON types.
const (
	intPattern     = `^[0-9]+$`
	datePattern    = `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`
	amountPattern  = `^[0-9]+([.][0-9]+)?$`
	optDatePattern = `^$|^[0-9]{4}-[0-9]{2}-[0-9]{2}$`
)

var (
	// Animal covers POST/PUT /api/animals.
	Animal = MustSchema("animal", `{
		"type": "object",
		"required": ["Name", "Species"],
		"properties": {
			"Name":     {"type": "string", "minLength": 1},
			"Species":  {"type": "string", "minLength": 1},
			"Age":      {"type": "string", "pattern": "`+intPattern+`"},
			"Status":   {"type": "string"},
			"Featured": {"type": "boolean"}
		}
	}`)

	// Medical covers POST/PUT /api/medical.
	Medical = MustSchema("medical", `{
		"type": "object",
		"required": ["AnimalID", "Date", "Description"],
		"properties": {
			"AnimalID":    {"type": "string", "minLength": 1, "pattern": "`+intPattern+`"},
			"Date":        {"type": "string", "minLength": 1, "pattern": "`+datePattern+`"},
			"Description": {"type": "string", "minLength": 1},
			"VetName":     {"type": "string"}
		}
	}`)

	// Adoption covers PUT /api/adoptions from the admin console.
	Adoption = MustSchema("adoption", `{
		"type": "object",
		"required": ["AnimalID", "AnimalName", "ApplicantName", "ApplicantContact", "ApplicantAddress", "Status"],
		"properties": {
			"AnimalID":         {"type": "string", "minLength": 1, "pattern": "`+intPattern+`"},
			"AnimalName":       {"type": "string", "minLength": 1},
			"ApplicantName":    {"type": "string", "minLength": 1},
			"ApplicantContact": {"type": "string", "format": "email"},
			"ApplicantAddress": {"type": "string", "minLength": 1},
			"Status":           {"enum": ["Pending", "Approved", "Rejected"]}
		}
	}`)

	// Donor covers POST/PUT /api/donors.
	Donor = MustSchema("donor", `{
		"type": "object",
		"required": ["Name"],
		"properties": {
			"Name":        {"type": "string", "minLength": 1},
			"ContactInfo": {"type": "string"}
		}
	}`)

	// Donation covers POST/PUT /api/donations from the admin console.
	Donation = MustSchema("donation", `{
		"type": "object",
		"required": ["DonorID", "Amount"],
		"properties": {
			"DonorID": {"type": "string", "minLength": 1, "pattern": "`+intPattern+`"},
			"Amount":  {"type": "string", "minLength": 1, "pattern": "`+amountPattern+`"},
			"Date":    {"type": "string", "pattern": "`+optDatePattern+`"},
			"Method":  {"type": "string"}
		}
	}`)

	// Volunteer covers POST/PUT /api/volunteers.
	Volunteer = MustSchema("volunteer", `{
		"type": "object",
		"required": ["Name"],
		"properties": {
			"Name":          {"type": "string", "minLength": 1},
			"JoinDate":      {"type": "string", "pattern": "`+optDatePattern+`"},
			"AssignedTasks": {"type": "string"}
		}
	}`)

	// PublicAdoption covers the public adoption form.
	PublicAdoption = MustSchema("public adoption", `{
		"type": "object",
		"required": ["adoptName", "adoptAnimal", "adoptAnimalName", "adoptContact", "adoptAddress"],
		"properties": {
			"adoptName":       {"type": "string", "minLength": 1},
			"adoptAnimal":     {"type": "string", "minLength": 1, "pattern": "`+intPattern+`"},
			"adoptAnimalName": {"type": "string", "minLength": 1},
			"adoptContact":    {"type": "string", "minLength": 1},
			"adoptAddress":    {"type": "string", "minLength": 1}
		}
	}`)

	// PublicDonation covers the public donation form.
	PublicDonation = MustSchema("public donation", `{
		"type": "object",
		"required": ["donorName", "donationAmount"],
		"properties": {
			"donorName":      {"type": "string", "minLength": 1},
			"donorContact":   {"type": "string"},
			"donationAmount": {"type": "string", "minLength": 1, "pattern": "`+amountPattern+`"}
		}
	}`)

	// Signup covers POST /api/users/signup.
	Signup = MustSchema("signup", `{
		"type": "object",
		"required": ["name", "email", "password"],
		"properties": {
			"name":     {"type": "string", "minLength": 1},
			"email":    {"type": "string", "format": "email"},
			"password": {"type": "string", "minLength": 1}
		}
	}`)
)
