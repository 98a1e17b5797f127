package ingest

// DefaultData is the built-in dataset used until an upload replaces it.
func DefaultData() *AppData {
	return &AppData{
		IsDefault: true,
		Inventory: []Record{
			{
				"AppName":      "App Alpha",
				"Environment":  "Test",
				"CPU":          "4 vCPU",
				"Memory":       "16GB",
				"Version":      "v1.2.0",
				"LoginDetails": "admin / alphaPass123",
			},
			{
				"AppName":      "App Alpha",
				"Environment":  "Prod",
				"CPU":          "16 vCPU",
				"Memory":       "64GB",
				"Version":      "v1.1.5",
				"LoginDetails": "Vault access required",
			},
			{
				"AppName":      "Beta Service",
				"Environment":  "Dev",
				"CPU":          "2 vCPU",
				"Memory":       "4GB",
				"Version":      "v2.0.0-beta",
				"LoginDetails": "dev / devPass",
			},
		},
		KnowledgeBase: []Record{
			{
				"Error":          "How to add Legal Values in Production Environment?",
				"RootCause":      "Requirement to add new legal values for entity fields.",
				"Solution":       "1. Locate the batch file at `\\\\brksvw64\\f$\\CDMS\\DataLoads\\com`. \n2. Open `LegalValueLoad.txt` and enter the Legal Value to be added. \n3. Ensure `CPACDataUser.txt` contains valid Production credentials. \n4. Run the batch file `LegalValueLoadTest.bat` to add the value to CDMS Production.",
				"ManagerContact": "Support Team",
			},
			{
				"Error":          "How to code EOFF orders in Jeff Client?",
				"RootCause":      "Need to code orders via Jeff Client.",
				"Solution":       "1. **Setup:** Jeff Client is on `BRKSVW221` at `F:\\FromTrigent\\Jeff_Client`. \n2. **Input:** Place the order `.txt` file in `F:\\FromTrigent\\Jeff_Client\\Input` (Ensure no other txt files exist). \n3. **Execution:** Open CMD, navigate to the folder, and run `StartJeffClient_prod64.bat`. \n4. **Output:** Check `F:\\FromTrigent\\Jeff_Client\\Output_64\\Prod` for `.msg` and `.out` files.",
				"ManagerContact": "Support Team",
			},
			{
				"Error":          "What is the PSENGT83 Job?",
				"RootCause":      "Job Information.",
				"Solution":       "**Function:** Kicks off the CE Builder (Most important job). \n**Machine:** BRKSVP2170. \n**Schedule:** ~18:30 CST. \n**Predecessor:** PSENGT82. \n**Process:** Invokes DFU, then CEBuilder to make full engine build (approx 1.5 hours).",
				"ManagerContact": "Trigent Support",
			},
			{
				"Error":          "How to create a ticket for EAR Deployment?",
				"RootCause":      "Auto-deployment unavailable or special request for Test/Support/Prod.",
				"Solution":       "1. Login to ServiceNow -> Request Task. \n2. **Assignment Group:** `I-NAV-APPS-WEBSPHERE`. \n3. **Short Desc:** Request to deploy [EAR Name] in [Env]. \n4. **Desc:** Details of Env, Nodes (e.g., BRKSVPL437), and location of `.ear` file (e.g., `\\\\brksvp754\\f$\\share\\Cdms\\...`).",
				"ManagerContact": "I-NAV-APPS-WEBSPHERE",
			},
			{
				"Error":          "How to extract logs from Production or Non-Production?",
				"RootCause":      "Need to analyze system or application logs.",
				"Solution":       "1. Use **WinSCP**. \n2. **Host:** Environment Node IP/Hostname (e.g., `BRKSVPL437`). \n3. **User:** SSH Username. \n4. **Path:** Navigate to `/websphere/apps/logs/CDMS` or `/websphere/WAS85.../logs`. \n5. Drag and drop `SystemErr.log`, `SystemOut.log`, or app logs to local machine.",
				"ManagerContact": "Support Team",
			},
			{
				"Error":          "How to restart Application and IHS Servers?",
				"RootCause":      "Application hung or deployment requires restart.",
				"Solution":       "1. **Dev/Stage:** Login to IBM Websphere Console. \n   - **Applications:** Applications -> Enterprise Applications -> Select App -> Stop/Start. \n   - **Servers:** Servers -> Server Types -> Websphere Application Servers -> Select Server -> Stop/Start. \n2. **Test/Support/Prod:** Cannot restart manually. Create ticket to AES Websphere Team.",
				"ManagerContact": "I-NAV-APPS-WEBSPHERE",
			},
			{
				"Error":          "What are the common issues causing Engine Rollback?",
				"RootCause":      "Engine validation failed (Error count > 4).",
				"Solution":       "**1. Completeness Issue:** Feature not in Assembly Group. Check `cce_validate_out.txt` and CDMS Completeness UI. \n**2. Validation Rule Issue:** Rejection rule triggered. Check clause in `cce_validate_out.txt`. \n**3. TruckPerfect Issue:** Driveline logs error. Check logs at `\\\\brksvp2170\\f$\\Program Files\\TCPCE\\Server\\log`. Restart TP servers via ticket if needed. \n**4. VEI Issue:** VEI logs error. Check logs at same path. Restart VEI via ticket.",
				"ManagerContact": "Trigent Support / Impacted Team",
			},
			{
				"Error":          "Who are the contact points for different teams?",
				"RootCause":      "Need to escalate or assign tickets.",
				"Solution":       "**DBA Oracle:** Tanmai Hada (`dbaoracle@international.com`) \n**DBA SQL:** Chandramouli Sangam \n**Websphere:** Hong Liao (`ITAESWebsphereDeployments@...`) \n**Windows:** Arun Ammanoor Kumar \n**TruckPerfect:** William Headrick (`william.headrick@certusoft.com`) \n**VEI:** William Thomas Reynolds (`VEIITTechnical@navistar.com`)",
				"ManagerContact": "See Solution",
			},
		},
	}
}
