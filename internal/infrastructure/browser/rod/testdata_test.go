package rod

// Pages served to the adapter tests.
const (
	FormHTML = `<!DOCTYPE html>
<html>
<body>
	<h2>My Information</h2>
	<input data-automation-id="email" type="text" />
	<input data-automation-id="prefilled" type="text" value="jane@example.com" />
	<input data-automation-id="file-upload-input-ref" type="file" />
	<button id="btn" data-automation-id="click_filter">Save and Continue</button>
	<div id="result"></div>
	<script>
		document.getElementById('btn').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
	</script>
</body>
</html>`

	LateHTML = `<!DOCTYPE html>
<html>
<body>
	<script>
		setTimeout(function() {
			var b = document.createElement('button');
			b.setAttribute('data-automation-id', 'signInLink');
			b.textContent = 'Sign In';
			document.body.appendChild(b);
		}, 300);
	</script>
</body>
</html>`

	DropdownHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="country" aria-haspopup="listbox">Select One</button>
	<div id="list"></div>
	<script>
		var options = ['United States of America', 'Canada'];
		document.getElementById('country').addEventListener('click', function() {
			var list = document.getElementById('list');
			list.innerHTML = '';
			options.forEach(function(o) {
				var d = document.createElement('div');
				d.textContent = o;
				d.addEventListener('click', function() {
					document.getElementById('country').textContent = o;
				});
				list.appendChild(d);
			});
		});
	</script>
</body>
</html>`
)
